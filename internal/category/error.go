package category

import "errors"

var ErrDuplicateCategory = errors.New("category already exists")
