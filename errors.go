package vlist

import "errors"

// ErrInvalidOptions marks configuration errors returned by [NewList].
var ErrInvalidOptions = errors.New("vlist: invalid options")
