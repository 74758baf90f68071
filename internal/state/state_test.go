package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestOpenCreatesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	settings, err := os.ReadFile(s.SettingsPath())
	if err != nil {
		t.Fatalf("settings file was not created: %v", err)
	}
	if string(settings) != "{}" {
		t.Errorf("settings = %q, want {}", settings)
	}

	cookies, err := os.ReadFile(s.CookiePath())
	if err != nil {
		t.Fatalf("cookie file was not created: %v", err)
	}
	if len(cookies) != 0 {
		t.Errorf("cookie file = %q, want empty", cookies)
	}

	// A second open leaves existing files alone.
	if err := s.SetOrganization("CodeNow"); err != nil {
		t.Fatalf("SetOrganization() failed: %v", err)
	}
	if _, err := Open(dir); err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	if got, _ := s.Organization(); got != "CodeNow" {
		t.Errorf("Organization() after reopen = %q, want CodeNow", got)
	}
}

func TestOrganization(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	_, err = s.Organization()
	if err != ErrNoOrganization {
		t.Errorf("Organization() with no selection: got err=%v, want ErrNoOrganization", err)
	}

	if err := s.SetOrganization("Runnable"); err != nil {
		t.Fatalf("SetOrganization() failed: %v", err)
	}

	data, _ := os.ReadFile(s.SettingsPath())
	if string(data) != `{"organization":"Runnable"}` {
		t.Errorf("settings.json = %s", data)
	}

	got, err := s.Organization()
	if err != nil {
		t.Fatalf("Organization() after set failed: %v", err)
	}
	if got != "Runnable" {
		t.Errorf("Organization() = %q, want Runnable", got)
	}
}

func TestOrganizationEmptySettingsFile(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := os.WriteFile(s.SettingsPath(), nil, 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Organization(); err != ErrNoOrganization {
		t.Errorf("Organization() on empty file: got err=%v, want ErrNoOrganization", err)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv("RUNNABLE_HOST", "")
		t.Setenv("RUNNABLE_STORE", "")

		v := viper.New()
		BindEnv(v)
		env, err := LoadEnv(v)
		if err != nil {
			t.Fatalf("LoadEnv() failed: %v", err)
		}
		if env.Host != DefaultHost {
			t.Errorf("Host = %q, want %q", env.Host, DefaultHost)
		}
		if env.GithubURL != DefaultGithubURL {
			t.Errorf("GithubURL = %q, want %q", env.GithubURL, DefaultGithubURL)
		}
		if want := filepath.Join(home, ".runnable"); env.StoreDir != want {
			t.Errorf("StoreDir = %q, want %q", env.StoreDir, want)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("RUNNABLE_HOST", "http://localhost:3030/")
		t.Setenv("RUNNABLE_GITHUB_URL", "http://localhost:9999")
		t.Setenv("RUNNABLE_STORE", "/tmp/runnable-store")
		t.Setenv("RUNNABLE_NO_COOKIE_PERSIST", "true")

		v := viper.New()
		BindEnv(v)
		env, err := LoadEnv(v)
		if err != nil {
			t.Fatalf("LoadEnv() failed: %v", err)
		}
		if env.Host != "http://localhost:3030" {
			t.Errorf("Host = %q, want trailing slash trimmed", env.Host)
		}
		if env.GithubURL != "http://localhost:9999" {
			t.Errorf("GithubURL = %q", env.GithubURL)
		}
		if env.StoreDir != "/tmp/runnable-store" {
			t.Errorf("StoreDir = %q", env.StoreDir)
		}
		if !env.NoCookiePersist {
			t.Error("NoCookiePersist should be true")
		}
	})
}

func TestCookieJarNoPersist(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	jar, err := s.CookieJar(true)
	if err != nil {
		t.Fatalf("CookieJar() failed: %v", err)
	}
	if err := jar.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	data, _ := os.ReadFile(s.CookiePath())
	if len(data) != 0 {
		t.Errorf("cookie file written with NoPersist: %q", data)
	}
}
