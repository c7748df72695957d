package global

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	minio "github.com/minio/minio-go/v7"

	"github.com/hsn8086/re-hcat-server/storage"
)

// InternalLogger for errors that should never happen in normal circumstances
var InternalLogger *log.Logger

// MonitorLogger for expected failures worth watching
var MonitorLogger *log.Logger

// Accounts is the user record store
var Accounts storage.Store

// Groups is the group record store
var Groups storage.Store

// Events is the event record store
var Events storage.Store

// MinIOClient for uploaded file storage, nil when disabled
var MinIOClient *minio.Client

// SecretKey is the process-wide symmetric key, loaded from disk at startup
var SecretKey []byte

// EventTimeout is how long an event record stays retrievable (1 week)
var EventTimeout = 7 * 24 * time.Hour

// ShortIDTimeout is the alias-specific expiry, strictly shorter than EventTimeout
var ShortIDTimeout = 5 * time.Minute

// ActivityCeiling is the presence countdown reset value in seconds
var ActivityCeiling = 30

// CleanerInterval is the event garbage collection tick
var CleanerInterval = 30 * time.Second

// Context is the default context
var Context = context.Background()

// Validator validates incoming bodys of data
var Validator = validator.New()
