package cli

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/stwalsh4118/sheepit-settings/internal/models"
)

// clientFlags are the client settings accepted on the command line
type clientFlags struct {
	login            string
	password         string
	proxy            string
	hostname         string
	computeMethod    string
	gpu              string
	renderBucketSize int
	cores            int
	memory           string
	renderTime       int
	cacheDir         string
	ui               string
	theme            string
	priority         int
	noSysTray        bool
	autoSignIn       bool
}

func (f *clientFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.login, "login", "", "Render farm login")
	fs.StringVar(&f.password, "password", "", "Render farm password")
	fs.StringVar(&f.proxy, "proxy", "", "HTTP proxy URL")
	fs.StringVar(&f.hostname, "hostname", "", "Render farm server URL")
	fs.StringVar(&f.computeMethod, "compute-method", "", "CPU, GPU or CPU_GPU")
	fs.StringVar(&f.gpu, "gpu", "", "GPU identifier, see the gpus command")
	fs.IntVar(&f.renderBucketSize, "renderbucket-size", models.Unset, "GPU render bucket size")
	fs.IntVar(&f.cores, "cores", models.Unset, "Number of CPU cores to use")
	fs.StringVar(&f.memory, "memory", "", "Maximum memory, for example 4g or 4096000k")
	fs.IntVar(&f.renderTime, "rendertime", models.Unset, "Maximum render time per frame in seconds")
	fs.StringVar(&f.cacheDir, "cache-dir", "", "Cache directory")
	fs.StringVar(&f.ui, "ui", "", "User interface type")
	fs.StringVar(&f.theme, "theme", "", "User interface theme")
	fs.IntVar(&f.priority, "priority", models.DefaultPriority, "Process priority")
	fs.BoolVar(&f.noSysTray, "no-systray", false, "Do not use the system tray")
	fs.BoolVar(&f.autoSignIn, "auto-signin", false, "Sign in automatically on start")
}

// clientConfig builds a configuration holding only what was given on the
// command line
func (f *clientFlags) clientConfig(fs *pflag.FlagSet, devices models.DeviceLookup) (*models.ClientConfig, error) {
	cfg := models.NewClientConfig()
	cfg.Login = f.login
	cfg.Password = f.password
	cfg.Proxy = f.proxy
	if f.hostname != "" {
		cfg.Hostname = f.hostname
	}

	if f.computeMethod != "" {
		method, err := models.ParseComputeMethod(f.computeMethod)
		if err != nil {
			return nil, err
		}
		cfg.ComputeMethod = method
	}

	if f.gpu != "" {
		if devices == nil {
			return nil, fmt.Errorf("%w: %s", models.ErrDeviceNotFound, f.gpu)
		}
		device, err := devices.Lookup(f.gpu)
		if err != nil {
			return nil, err
		}
		cfg.GPUDevice = device
	}
	cfg.RenderBucketSize = f.renderBucketSize

	if f.cores != models.Unset && f.cores < 1 {
		return nil, fmt.Errorf("invalid cores: %d (must be > 0)", f.cores)
	}
	cfg.Cores = f.cores

	if f.memory != "" {
		kb, err := models.ParseMemoryKB(f.memory)
		if err != nil {
			return nil, err
		}
		cfg.MaxMemory = kb
	}

	if f.renderTime != models.Unset && f.renderTime < 1 {
		return nil, fmt.Errorf("invalid rendertime: %d (must be > 0)", f.renderTime)
	}
	cfg.MaxRenderTime = f.renderTime

	if fs.Changed("cache-dir") {
		cfg.SetCacheDir(f.cacheDir)
	}
	cfg.UIType = f.ui
	cfg.Theme = f.theme
	cfg.Priority = f.priority
	cfg.UseSysTray = !f.noSysTray
	cfg.AutoSignIn = f.autoSignIn

	return cfg, nil
}
