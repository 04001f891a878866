package storage

import "errors"

// ErrNotFound lo devuelven todos los adapters de storage (memory/postgres)
// cuando la fila no existe. Los services lo traducen a su propio ErrNotFound.
var ErrNotFound = errors.New("storage: not found")
