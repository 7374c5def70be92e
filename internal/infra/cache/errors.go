package cache

import "errors"

var (
	// ErrCacheMiss ключ отсутствует в хранилище
	ErrCacheMiss = errors.New("cache: miss")

	// ErrStore ошибка хранилища
	ErrStore = errors.New("cache: store error")
)
