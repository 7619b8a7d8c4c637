package server

import (
	"fmt"

	"github.com/civicstack/mediavault/internal/server/library"
	"github.com/civicstack/mediavault/internal/server/session"
	"github.com/civicstack/mediavault/internal/server/store"
	"github.com/civicstack/mediavault/internal/utils"
)

type Services struct {
	Store    store.ObjectStore
	Sessions *session.Manager
	Library  *library.Library
}

func NewServices(config *Config) (*Services, error) {
	objStore, err := store.NewS3StoreWithConfig(&config.Store)
	if err != nil {
		return nil, fmt.Errorf("create object store: %w", err)
	}

	dbPath, err := utils.ResolvePath(config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve db path: %w", err)
	}
	if err := utils.EnsureParent(dbPath); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	lib, err := library.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open media library: %w", err)
	}

	sessions := session.NewManager(objStore, config.Upload.Session)

	return &Services{
		Store:    objStore,
		Sessions: sessions,
		Library:  lib,
	}, nil
}

func (s *Services) Shutdown() error {
	if err := s.Library.Close(); err != nil {
		return fmt.Errorf("close media library: %w", err)
	}
	return nil
}
