package models

import (
	"fmt"
)

// ClientConfig is the live configuration of a render client.
// Values set before resolution come from the command line and take
// precedence over the settings file. Empty strings, Unset numbers and a nil
// GPUDevice mean "not provided".
type ClientConfig struct {
	Login    string
	Password string
	Proxy    string
	Hostname string

	ComputeMethod    ComputeMethod
	GPUDevice        Device
	RenderBucketSize int
	Cores            int
	// MaxMemory is in kilobytes.
	MaxMemory int64
	// MaxRenderTime is in seconds.
	MaxRenderTime int

	CacheDir string
	// UserSpecifiedCacheDir is true when CacheDir came from the user rather
	// than a computed default.
	UserSpecifiedCacheDir bool

	UIType     string
	Theme      string
	Priority   int
	UseSysTray bool
	AutoSignIn bool
}

// NewClientConfig returns a configuration with every field unset
func NewClientConfig() *ClientConfig {
	return &ClientConfig{
		Hostname:         DefaultHostname,
		RenderBucketSize: Unset,
		Cores:            Unset,
		MaxMemory:        Unset,
		MaxRenderTime:    Unset,
		Priority:         DefaultPriority,
		UseSysTray:       true,
	}
}

// SetCacheDir records a cache directory chosen by the user
func (c *ClientConfig) SetCacheDir(dir string) {
	c.CacheDir = dir
	c.UserSpecifiedCacheDir = true
}

// String renders the configuration on one line with the password masked
func (c *ClientConfig) String() string {
	if c == nil {
		return "ClientConfig<nil>"
	}
	gpu := "(none)"
	if c.GPUDevice != nil {
		gpu = fmt.Sprintf("%s (%s, bucket %d)", c.GPUDevice.ID(), c.GPUDevice.Model(), c.GPUDevice.RenderBucketSize())
	}
	password := "(not set)"
	if c.Password != "" {
		password = redacted
	}
	return fmt.Sprintf(
		"ClientConfig[login=%s, password=%s, hostname=%s, computeMethod=%s, gpu=%s, renderbucket-size=%d, "+
			"cores=%d, ram=%dk, rendertime=%d, cacheDir=%s, ui=%s, theme=%s, priority=%d, autosign=%t, usetray=%t]",
		c.Login, password, c.Hostname, c.ComputeMethod, gpu, c.RenderBucketSize,
		c.Cores, c.MaxMemory, c.MaxRenderTime, c.CacheDir, c.UIType, c.Theme, c.Priority, c.AutoSignIn, c.UseSysTray,
	)
}
