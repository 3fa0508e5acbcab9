package controllers

import "github.com/lionbet-games/poker-backend/storage"

// Store is the storage backend shared by all handlers, assigned once
// at startup.
var Store storage.Storage
