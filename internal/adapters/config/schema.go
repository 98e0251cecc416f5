package config

import "go.trai.ch/marshal/internal/core/domain"

// Descriptor is the on-disk YAML form of a workload.
type Descriptor struct {
	Name        string                 `yaml:"name"`
	Base        string                 `yaml:"base"`
	Bin         string                 `yaml:"bin"`
	Img         string                 `yaml:"img"`
	Nodisk      bool                   `yaml:"nodisk"`
	LinuxConfig string                 `yaml:"linux-config"`
	LinuxSrc    string                 `yaml:"linux-src"`
	BaseImg     string                 `yaml:"base-img"`
	Distro      string                 `yaml:"distro"`
	Files       []domain.FileSpec      `yaml:"files"`
	Overlay     string                 `yaml:"overlay"`
	GuestInit   *domain.RunSpec        `yaml:"guest-init"`
	Run         *domain.RunSpec        `yaml:"run"`
	HostInit    string                 `yaml:"host-init"`
	Launch      *domain.LaunchOptions  `yaml:"launch"`
	Jobs        map[string]*Descriptor `yaml:"jobs"`

	// dir is the directory the descriptor was read from.
	dir string
}
