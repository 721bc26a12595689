package user

import "errors"

var ErrEmailExists = errors.New("email already registered")
