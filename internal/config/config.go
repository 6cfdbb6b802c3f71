// Package config persists the server's runtime configuration as TOML
// alongside a guarded in-memory copy other packages can read safely
// from multiple goroutines.
package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/BurntSushi/toml"
)

// Config is the server's persisted configuration.
type Config struct {
	ListenWS   string `toml:"listen_ws"`
	ListenHTTP string `toml:"listen_http"`
	ListenP2P  string `toml:"listen_p2p"`

	SmallBlind uint64 `toml:"small_blind"`
	BigBlind   uint64 `toml:"big_blind"`

	BotDelayMinMillis int `toml:"bot_delay_min_millis"`
	BotDelayMaxMillis int `toml:"bot_delay_max_millis"`

	// P2PKeyHex persists the server's static Ed25519 identity seed
	// (hex-encoded) across restarts so peers see a stable certificate.
	P2PKeyHex string `toml:"p2p_key_hex"`
}

// Default returns the configuration a fresh install starts from.
func Default() Config {
	return Config{
		ListenWS:          "127.0.0.1:8080",
		ListenHTTP:        "127.0.0.1:8081",
		ListenP2P:         "127.0.0.1:8082",
		SmallBlind:        1,
		BigBlind:          2,
		BotDelayMinMillis: 400,
		BotDelayMaxMillis: 2500,
	}
}

// Store guards a Config with a read-write lock so transports can read
// it concurrently while a CLI-driven reload swaps it out.
type Store struct {
	mu   sync.RWMutex
	path string
	cfg  Config
}

// Load reads path, falling back to Default (and persisting it) if the
// file does not yet exist.
func Load(path string) (*Store, error) {
	s := &Store{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		s.cfg = Default()
		if err := s.save(); err != nil {
			return nil, err
		}
		return s, nil
	}
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	s.cfg = cfg
	return s, nil
}

// Get returns a copy of the current configuration.
func (s *Store) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Update replaces the stored configuration and persists it to disk.
func (s *Store) Update(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	return s.save()
}

func (s *Store) save() error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("config: creating %s: %w", s.path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(s.cfg); err != nil {
		return fmt.Errorf("config: encoding %s: %w", s.path, err)
	}
	return nil
}
