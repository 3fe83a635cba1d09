package config

import "time"

const (
	STORAGE_PATH            = "./storage_data"
	API_PORT                = "8080"
	DefaultStorageDriver    = DriverFilesystem
	DefaultAzureContainer   = "files"
	DefaultEventBufferSize  = 100
	DefaultDebounceInterval = 500 * time.Millisecond
	ShutdownTimeout         = 30 * time.Second
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	DriverFilesystem = "filesystem"
	DriverMemory     = "memory"
	DriverAzure      = "azure"
)
