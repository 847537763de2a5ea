package repository

import "errors"

var ErrEmptyName = errors.New("name is empty")
