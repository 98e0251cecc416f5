package distro

import (
	"os"
	"path/filepath"

	"go.trai.ch/marshal/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	initScriptPath = "etc/init.d/S99run"
	unitName       = "marshal-run.service"
	unitDir        = "etc/systemd/system"
)

func writeInitScript(dir, action string) error {
	body := "#!/bin/sh\nexit 0\n"
	if action != "" {
		body = "#!/bin/sh\n\ncase \"$1\" in\n  start)\n    " + action + "\n    ;;\nesac\n"
	}
	return writeOverlayFile(filepath.Join(dir, initScriptPath), body, domain.ScriptPerm)
}

func writeSystemdUnit(dir, action string) error {
	if action == "" {
		action = "/bin/true"
	}
	body := "[Unit]\n" +
		"Description=Workload boot action\n" +
		"After=multi-user.target\n\n" +
		"[Service]\n" +
		"Type=oneshot\n" +
		"ExecStart=" + action + "\n" +
		"StandardOutput=journal+console\n\n" +
		"[Install]\n" +
		"WantedBy=multi-user.target\n"

	unit := filepath.Join(dir, unitDir, unitName)
	if err := writeOverlayFile(unit, body, domain.FilePerm); err != nil {
		return err
	}

	wants := filepath.Join(dir, unitDir, "multi-user.target.wants")
	if err := os.MkdirAll(wants, domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to write boot overlay")
	}
	if err := os.Symlink("/"+filepath.ToSlash(filepath.Join(unitDir, unitName)), filepath.Join(wants, unitName)); err != nil {
		return zerr.Wrap(err, "failed to write boot overlay")
	}
	return nil
}

func writeOverlayFile(path, body string, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write boot overlay"), "path", path)
	}
	if err := os.WriteFile(path, []byte(body), perm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write boot overlay"), "path", path)
	}
	return nil
}
