package deps

import (
	"os/exec"
	"testing"
)

func TestCheckPwRecord(t *testing.T) {
	status := CheckPwRecord()

	if status.Installed {
		if status.Path == "" {
			t.Error("installed but path empty")
		}
	} else if status.Path != "" {
		t.Error("not installed but path non-empty")
	}
}

func TestCheckPwRecordNotInstalled(t *testing.T) {
	if _, err := exec.LookPath("pw-record"); err != nil {
		status := CheckPwRecord()
		if status.Installed {
			t.Error("expected Installed=false when pw-record not in PATH")
		}
		if status.Path != "" {
			t.Error("expected empty path when not installed")
		}
	} else {
		t.Skip("pw-record is installed, can't test not-installed case")
	}
}

func TestCheckDotool(t *testing.T) {
	status := CheckDotool()

	if status.Installed {
		if status.Path == "" {
			t.Error("installed but path empty")
		}
	} else if status.Path != "" {
		t.Error("not installed but path non-empty")
	}
}

func TestCheckDotoolNotInstalled(t *testing.T) {
	if _, err := exec.LookPath("dotool"); err != nil {
		status := CheckDotool()
		if status.Installed {
			t.Error("expected Installed=false when dotool not in PATH")
		}
	} else {
		t.Skip("dotool is installed, can't test not-installed case")
	}
}
