package domain_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestWorkloadConfig_Validate(t *testing.T) {
	t.Run("nodisk without bin is rejected", func(t *testing.T) {
		cfg := &domain.WorkloadConfig{Name: "w", Nodisk: true, Img: "w.img"}
		require.ErrorContains(t, cfg.Validate(), "nodisk requires a binary output")
		require.ErrorIs(t, cfg.Validate(), domain.ErrNodiskWithoutBin)
	})

	t.Run("run spec needs exactly one of command or path", func(t *testing.T) {
		cfg := &domain.WorkloadConfig{Name: "w", Run: &domain.RunSpec{Command: "ls", Path: "run.sh"}}
		require.ErrorContains(t, cfg.Validate(), "exactly one of command or path")

		cfg = &domain.WorkloadConfig{Name: "w", Bin: "out/bbl", GuestInit: &domain.RunSpec{}}
		require.ErrorIs(t, cfg.Validate(), domain.ErrInvalidRunSpec)
	})

	t.Run("guest-init without bin is rejected", func(t *testing.T) {
		cfg := &domain.WorkloadConfig{Name: "w", Img: "w.img", GuestInit: &domain.RunSpec{Command: "apk add openssh"}}
		err := cfg.Validate()
		require.ErrorIs(t, err, domain.ErrGuestInitWithoutBin)

		var zErr *zerr.Error
		require.ErrorAs(t, err, &zErr)
		require.Equal(t, "w", zErr.Metadata()["workload"])

		cfg.Bin = "out/bbl"
		require.NoError(t, cfg.Validate())
	})

	t.Run("valid nodisk config", func(t *testing.T) {
		cfg := &domain.WorkloadConfig{Name: "w", Nodisk: true, Bin: "out/bbl"}
		require.NoError(t, cfg.Validate())
		require.Equal(t, "out/bbl-nodisk", cfg.NodiskBin())
	})
}

func TestWorkloadConfig_AllFiles(t *testing.T) {
	overlay := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(overlay, "etc"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(overlay, "motd"), []byte("hi"), 0o600))

	cfg := &domain.WorkloadConfig{
		Name:    "w",
		Files:   []domain.FileSpec{{Src: "app", Dst: "/usr/app"}},
		Overlay: overlay,
	}

	files, err := cfg.AllFiles()
	require.NoError(t, err)
	require.Equal(t, []domain.FileSpec{
		{Src: "app", Dst: "/usr/app"},
		{Src: filepath.Join(overlay, "etc"), Dst: "/"},
		{Src: filepath.Join(overlay, "motd"), Dst: "/"},
	}, files)

	// The config keeps its declared file list.
	require.Len(t, cfg.Files, 1)
}

func TestWorkloadConfig_JobNames(t *testing.T) {
	cfg := &domain.WorkloadConfig{Jobs: map[string]*domain.WorkloadConfig{
		"server": {}, "client": {},
	}}
	require.Equal(t, []string{"client", "server"}, cfg.JobNames())
}

func TestBootState_Next(t *testing.T) {
	s := domain.BootIdle

	s, err := s.Next(domain.BootScriptInstalled)
	require.NoError(t, err)
	s, err = s.Next(domain.BootBooted)
	require.NoError(t, err)
	s, err = s.Next(domain.BootCleared)
	require.NoError(t, err)
	require.Equal(t, domain.BootCleared, s)

	_, err = domain.BootIdle.Next(domain.BootBooted)
	require.ErrorContains(t, err, "invalid boot injection transition")

	// A failed boot still allows the clear step.
	_, err = domain.BootScriptInstalled.Next(domain.BootCleared)
	require.NoError(t, err)
}

func TestReport(t *testing.T) {
	r := domain.NewReport([]string{"bin", "img"})
	r.Record(domain.TaskResult{Task: "bin", Outcome: domain.OutcomeSucceeded})
	r.Record(domain.TaskResult{Task: "img", Outcome: domain.OutcomeBlocked, BlockedBy: "init"})
	r.Record(domain.TaskResult{Task: "init", Outcome: domain.OutcomeFailed, Err: domain.ErrMissingScript})
	r.Record(domain.TaskResult{Task: "base", Outcome: domain.OutcomeUpToDate})

	require.False(t, r.OK())
	require.True(t, r.Partial())
	require.Equal(t, []string{"init"}, r.Failed())
	require.Equal(t, []string{"img"}, r.Blocked())
	require.Equal(t, []string{"bin", "init"}, r.Executed())
	require.ErrorContains(t, r.Err(), "script not found")
}
