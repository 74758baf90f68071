// Package state manages the on-disk store shared by every runnable command.
// The store lives in ~/.runnable (or $RUNNABLE_STORE) and holds settings.json
// with the selected organization and cookie-jar.json with the session cookies.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cookiejar "github.com/juju/persistent-cookiejar"
	"github.com/spf13/viper"
)

const (
	storeDirName     = ".runnable"
	settingsFileName = "settings.json"
	cookieFileName   = "cookie-jar.json"

	DefaultHost      = "https://api.runnable.io"
	DefaultGithubURL = "https://api.github.com"
)

var (
	ErrNoOrganization = errors.New("no organization selected")
)

// Env is the environment a command runs against.
type Env struct {
	Host            string
	GithubURL       string
	StoreDir        string
	NoCookiePersist bool
	Debug           bool
}

// BindEnv registers the RUNNABLE_* environment variables and their defaults
// on v. Flags may be bound on top of these by the caller.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix("runnable")
	for _, key := range []string{"host", "github_url", "store", "no_cookie_persist", "debug"} {
		_ = v.BindEnv(key)
	}
	v.SetDefault("host", DefaultHost)
	v.SetDefault("github_url", DefaultGithubURL)
}

// LoadEnv resolves the environment from v. An empty store falls back to
// ~/.runnable.
func LoadEnv(v *viper.Viper) (*Env, error) {
	env := &Env{
		Host:            strings.TrimRight(v.GetString("host"), "/"),
		GithubURL:       strings.TrimRight(v.GetString("github_url"), "/"),
		StoreDir:        v.GetString("store"),
		NoCookiePersist: v.GetBool("no_cookie_persist"),
		Debug:           v.GetBool("debug"),
	}
	if env.StoreDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		env.StoreDir = filepath.Join(home, storeDirName)
	}
	return env, nil
}

// Store is an opened store directory.
type Store struct {
	dir string
}

type settings struct {
	Organization string `json:"organization,omitempty"`
}

// Open creates the store directory and its files when they are missing.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	s := &Store{dir: dir}
	if err := ensureFile(s.SettingsPath(), "{}"); err != nil {
		return nil, err
	}
	if err := ensureFile(s.CookiePath(), ""); err != nil {
		return nil, err
	}
	return s, nil
}

func ensureFile(path, contents string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, []byte(contents), 0600)
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// SettingsPath returns the path of settings.json.
func (s *Store) SettingsPath() string { return filepath.Join(s.dir, settingsFileName) }

// CookiePath returns the path of cookie-jar.json.
func (s *Store) CookiePath() string { return filepath.Join(s.dir, cookieFileName) }

// Organization returns the selected organization.
// Returns ErrNoOrganization if none has been chosen yet.
func (s *Store) Organization() (string, error) {
	data, err := os.ReadFile(s.SettingsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoOrganization
		}
		return "", err
	}

	var st settings
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, &st); err != nil {
			return "", fmt.Errorf("failed to parse %s: %w", settingsFileName, err)
		}
	}
	if st.Organization == "" {
		return "", ErrNoOrganization
	}
	return st.Organization, nil
}

// SetOrganization saves org as the selected organization.
func (s *Store) SetOrganization(org string) error {
	data, err := json.Marshal(settings{Organization: org})
	if err != nil {
		return err
	}
	return os.WriteFile(s.SettingsPath(), data, 0600)
}

// CookieJar loads the persistent cookie jar. With noPersist the jar lives in
// memory only and the file is neither read nor written.
func (s *Store) CookieJar(noPersist bool) (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{
		Filename:  s.CookiePath(),
		NoPersist: noPersist,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load cookies: %w", err)
	}
	return jar, nil
}
