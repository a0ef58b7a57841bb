package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownGormEngine error if config db.gormEngine is not supported.
	ErrUnknownGormEngine = errors.New("toml config db.gormEngine must be sqlite, mysql or postgres")

	// ErrDuplicatePlugin error if two plugins share a slug, post type or menu base.
	ErrDuplicatePlugin = errors.New("toml config plugins must have unique slug, postType and menuBase")

	// ErrReservedMenuBase error if a plugin menuBase collides with an application route.
	ErrReservedMenuBase = errors.New("toml config plugin menuBase is reserved by the application")
)
