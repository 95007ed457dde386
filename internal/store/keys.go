package store

// Keys recognized in the settings file
const (
	keyCacheDir         = "cache-dir"
	keyComputeMethod    = "compute-method"
	keyComputeGPU       = "compute-gpu"
	keyRenderBucketSize = "renderbucket-size"
	keyLegacyCores      = "cpu-cores"
	keyCores            = "cores"
	keyRAM              = "ram"
	keyRenderTime       = "rendertime"
	keyLogin            = "login"
	keyPassword         = "password"
	keyProxy            = "proxy"
	keyHostname         = "hostname"
	keyAutoSignIn       = "auto-signin"
	keyUseSysTray       = "use-systray"
	keyUI               = "ui"
	keyTheme            = "theme"
	keyPriority         = "priority"
)

// knownKeys lists every key the decoder consumes
var knownKeys = map[string]bool{
	keyCacheDir:         true,
	keyComputeMethod:    true,
	keyComputeGPU:       true,
	keyRenderBucketSize: true,
	keyLegacyCores:      true,
	keyCores:            true,
	keyRAM:              true,
	keyRenderTime:       true,
	keyLogin:            true,
	keyPassword:         true,
	keyProxy:            true,
	keyHostname:         true,
	keyAutoSignIn:       true,
	keyUseSysTray:       true,
	keyUI:               true,
	keyTheme:            true,
	keyPriority:         true,
}
