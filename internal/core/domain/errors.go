package domain

import "errors"

// ErrNoSuchNetwork is returned by connection providers when the network
// id does not resolve to a configured network.
var ErrNoSuchNetwork = errors.New("no such network")
