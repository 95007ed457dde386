package resolver

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/sheepit-settings/internal/hardware"
	"github.com/stwalsh4118/sheepit-settings/internal/models"
	"github.com/stwalsh4118/sheepit-settings/internal/store"
)

// resolveAndApply runs a full resolution against cfg
func resolveAndApply(t *testing.T, r *Resolver, snap *models.Snapshot, cfg *models.ClientConfig) *Resolution {
	t.Helper()
	res, err := r.Resolve(snap, cfg)
	require.NoError(t, err)
	res.Apply(cfg)
	return res
}

type failingLookup struct{}

func (failingLookup) Lookup(id string) (models.Device, error) {
	return nil, errors.New("enumeration failed")
}

func TestResolve_NilConfiguration(t *testing.T) {
	res, err := New(nil).Resolve(models.NewSnapshot(), nil)

	assert.Nil(t, res)
	assert.True(t, IsNilConfiguration(err))
}

func TestResolve_NilSnapshotBehavesLikeEmptyFile(t *testing.T) {
	cfg := models.NewClientConfig()

	resolveAndApply(t, New(nil), nil, cfg)

	assert.Equal(t, models.ComputeCPU, cfg.ComputeMethod)
	assert.Equal(t, models.DefaultTheme, cfg.Theme)
	assert.Equal(t, models.DefaultPriority, cfg.Priority)
	assert.Equal(t, models.DefaultHostname, cfg.Hostname)
	assert.True(t, cfg.UseSysTray)
	assert.False(t, cfg.AutoSignIn)
}

func TestResolve_AssignsID(t *testing.T) {
	res, err := New(nil).Resolve(nil, models.NewClientConfig())
	require.NoError(t, err)

	_, parseErr := uuid.Parse(res.ID)
	assert.NoError(t, parseErr)
}

func TestResolve_ScalarsFillEmptyFields(t *testing.T) {
	snap := models.NewSnapshot()
	snap.Login = models.Ptr("alice")
	snap.Password = models.Ptr("secret")
	snap.Proxy = models.Ptr("http://proxy:3128")
	snap.UI = models.Ptr("text")
	cfg := models.NewClientConfig()

	resolveAndApply(t, New(nil), snap, cfg)

	assert.Equal(t, "alice", cfg.Login)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, "http://proxy:3128", cfg.Proxy)
	assert.Equal(t, "text", cfg.UIType)
}

func TestResolve_ScalarsNeverOverrideRuntimeValues(t *testing.T) {
	snap := models.NewSnapshot()
	snap.Login = models.Ptr("stored-login")
	snap.Password = models.Ptr("stored-password")
	snap.Proxy = models.Ptr("stored-proxy")
	snap.Hostname = models.Ptr("https://stored.example/")
	snap.UI = models.Ptr("stored-ui")

	cfg := models.NewClientConfig()
	cfg.Login = "flag-login"
	cfg.Password = "flag-password"
	cfg.Proxy = "flag-proxy"
	cfg.Hostname = "https://flag.example/"
	cfg.UIType = "flag-ui"

	resolveAndApply(t, New(nil), snap, cfg)

	assert.Equal(t, "flag-login", cfg.Login)
	assert.Equal(t, "flag-password", cfg.Password)
	assert.Equal(t, "flag-proxy", cfg.Proxy)
	assert.Equal(t, "https://flag.example/", cfg.Hostname)
	assert.Equal(t, "flag-ui", cfg.UIType)
}

func TestResolve_Hostname(t *testing.T) {
	tests := []struct {
		name    string
		current string
		stored  *string
		want    string
	}{
		{"default hostname is replaced", models.DefaultHostname, models.Ptr("https://stored/"), "https://stored/"},
		{"empty hostname is replaced", "", models.Ptr("https://stored/"), "https://stored/"},
		{"custom hostname is kept", "https://flag/", models.Ptr("https://stored/"), "https://flag/"},
		{"nothing stored keeps default", models.DefaultHostname, nil, models.DefaultHostname},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := models.NewSnapshot()
			snap.Hostname = tt.stored
			cfg := models.NewClientConfig()
			cfg.Hostname = tt.current

			resolveAndApply(t, New(nil), snap, cfg)

			assert.Equal(t, tt.want, cfg.Hostname)
		})
	}
}

func TestResolve_Priority(t *testing.T) {
	tests := []struct {
		name    string
		current int
		stored  int
		want    int
	}{
		{"default priority takes stored value", models.DefaultPriority, 5, 5},
		{"overridden priority is kept", 7, 5, 7},
		{"stored default is a no-op", models.DefaultPriority, models.DefaultPriority, models.DefaultPriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := models.NewSnapshot()
			snap.Priority = tt.stored
			cfg := models.NewClientConfig()
			cfg.Priority = tt.current

			resolveAndApply(t, New(nil), snap, cfg)

			assert.Equal(t, tt.want, cfg.Priority)
		})
	}
}

func TestResolve_ComputeMethod(t *testing.T) {
	tests := []struct {
		name       string
		current    models.ComputeMethod
		stored     *string
		want       models.ComputeMethod
		wantErrors int
	}{
		{"both empty defaults to CPU", "", nil, models.ComputeCPU, 0},
		{"stored value adopted", "", models.Ptr("CPU_GPU"), models.ComputeCPUGPU, 0},
		{"runtime value wins", models.ComputeGPU, models.Ptr("CPU"), models.ComputeGPU, 0},
		{"invalid stored value falls back to CPU", "", models.Ptr("BOGUS"), models.ComputeCPU, 1},
		{"invalid stored value keeps runtime value", models.ComputeGPU, models.Ptr("BOGUS"), models.ComputeGPU, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := models.NewSnapshot()
			snap.ComputeMethod = tt.stored
			cfg := models.NewClientConfig()
			cfg.ComputeMethod = tt.current

			res := resolveAndApply(t, New(nil), snap, cfg)

			assert.Equal(t, tt.want, cfg.ComputeMethod)
			require.Len(t, res.Errors, tt.wantErrors)
			if tt.wantErrors > 0 {
				assert.Equal(t, fieldComputeMethod, res.Errors[0].Field)
				assert.True(t, models.IsInvalidComputeMethod(res.Errors[0]))
			}
		})
	}
}

func TestResolve_GPU_AdoptsStoredDevice(t *testing.T) {
	tests := []struct {
		name          string
		currentBucket int
		storedBucket  *int
		want          int
	}{
		{"stored bucket size used when runtime is unset", models.Unset, models.Ptr(64), 64},
		{"runtime bucket size wins", 512, models.Ptr(64), 512},
		{"runtime bucket below minimum is ignored", models.MinRenderBucketSize - 1, models.Ptr(64), 64},
		{"device default kept when nothing set", models.Unset, nil, 256},
		{"stored bucket below minimum ignored", models.Unset, models.Ptr(16), 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := hardware.NewGPUDevice("X", "Test GPU", 8<<30)
			r := New(hardware.NewStaticLookup(device))

			snap := models.NewSnapshot()
			snap.GPUID = models.Ptr("X")
			snap.RenderBucketSize = tt.storedBucket
			cfg := models.NewClientConfig()
			cfg.RenderBucketSize = tt.currentBucket

			res := resolveAndApply(t, r, snap, cfg)

			require.NotNil(t, res.GPU)
			assert.True(t, res.GPU.Adopted)
			require.NotNil(t, cfg.GPUDevice)
			assert.Equal(t, "X", cfg.GPUDevice.ID())
			assert.Equal(t, tt.want, cfg.GPUDevice.RenderBucketSize())
			assert.Equal(t, tt.want, cfg.RenderBucketSize)
		})
	}
}

func TestResolve_GPU_UnknownStoredDevice(t *testing.T) {
	tests := []struct {
		name   string
		lookup models.DeviceLookup
	}{
		{"not found", hardware.NewStaticLookup()},
		{"lookup failure", failingLookup{}},
		{"no lookup", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := models.NewSnapshot()
			snap.GPUID = models.Ptr("CUDA_9")
			snap.RenderBucketSize = models.Ptr(64)
			cfg := models.NewClientConfig()

			res := resolveAndApply(t, New(tt.lookup), snap, cfg)

			assert.Nil(t, res.GPU)
			assert.Nil(t, cfg.GPUDevice)
			assert.Equal(t, models.Unset, cfg.RenderBucketSize)
		})
	}
}

func TestResolve_GPU_ExistingDevice(t *testing.T) {
	tests := []struct {
		name          string
		currentBucket int
		storedBucket  *int
		want          int
	}{
		{"runtime bucket size wins", 96, models.Ptr(64), 96},
		{"stored bucket size second", models.Unset, models.Ptr(64), 64},
		{"recommended size last", models.Unset, nil, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := hardware.NewGPUDevice("CUDA_0", "Small GPU", 512<<20)
			current.SetRenderBucketSize(1024)
			stored := hardware.NewGPUDevice("CUDA_1", "Other GPU", 8<<30)
			r := New(hardware.NewStaticLookup(stored))

			snap := models.NewSnapshot()
			snap.GPUID = models.Ptr("CUDA_1")
			snap.RenderBucketSize = tt.storedBucket
			cfg := models.NewClientConfig()
			cfg.GPUDevice = current
			cfg.RenderBucketSize = tt.currentBucket

			res := resolveAndApply(t, r, snap, cfg)

			require.NotNil(t, res.GPU)
			assert.False(t, res.GPU.Adopted)
			assert.Same(t, current, cfg.GPUDevice)
			assert.Equal(t, tt.want, current.RenderBucketSize())
			assert.Equal(t, tt.currentBucket, cfg.RenderBucketSize, "bucket size is not copied back for a runtime device")
		})
	}
}

func TestResolve_NumericFields(t *testing.T) {
	snap := models.NewSnapshot()
	snap.Cores = models.Ptr(4)
	snap.RAM = models.Ptr("4096000k")
	snap.RenderTime = models.Ptr(600)

	cfg := models.NewClientConfig()
	resolveAndApply(t, New(nil), snap, cfg)

	assert.Equal(t, 4, cfg.Cores)
	assert.Equal(t, int64(4096000), cfg.MaxMemory)
	assert.Equal(t, 600, cfg.MaxRenderTime)

	overridden := models.NewClientConfig()
	overridden.Cores = 2
	overridden.MaxMemory = 1000
	overridden.MaxRenderTime = 60
	resolveAndApply(t, New(nil), snap, overridden)

	assert.Equal(t, 2, overridden.Cores)
	assert.Equal(t, int64(1000), overridden.MaxMemory)
	assert.Equal(t, 60, overridden.MaxRenderTime)
}

func TestResolve_RAMConversion(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		want   int64
	}{
		{"kilobytes", "4096000k", 4096000},
		{"gigabytes", "4g", 4000000},
		{"megabytes", "2048M", 2048000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := models.NewSnapshot()
			snap.RAM = models.Ptr(tt.stored)
			cfg := models.NewClientConfig()

			resolveAndApply(t, New(nil), snap, cfg)

			assert.Equal(t, tt.want, cfg.MaxMemory)
		})
	}
}

func TestResolve_InvalidRAMIsIgnored(t *testing.T) {
	snap := models.NewSnapshot()
	snap.RAM = models.Ptr("plenty")
	snap.Cores = models.Ptr(3)
	cfg := models.NewClientConfig()

	res := resolveAndApply(t, New(nil), snap, cfg)

	assert.Equal(t, int64(models.Unset), cfg.MaxMemory)
	assert.Equal(t, 3, cfg.Cores, "other fields still resolve")
	require.Len(t, res.Errors, 1)
	fieldErr, ok := AsFieldError(res.Errors[0])
	require.True(t, ok)
	assert.Equal(t, fieldRAM, fieldErr.Field)
	assert.Equal(t, "plenty", fieldErr.Value)
	assert.True(t, models.IsInvalidMemory(fieldErr))
}

func TestResolve_CacheDir(t *testing.T) {
	snap := models.NewSnapshot()
	snap.CacheDir = models.Ptr("/stored/cache")

	computed := models.NewClientConfig()
	computed.CacheDir = "/tmp/default-cache"
	resolveAndApply(t, New(nil), snap, computed)
	assert.Equal(t, "/stored/cache", computed.CacheDir, "a computed default is replaced")

	userChosen := models.NewClientConfig()
	userChosen.SetCacheDir("/user/cache")
	resolveAndApply(t, New(nil), snap, userChosen)
	assert.Equal(t, "/user/cache", userChosen.CacheDir)
}

func TestResolve_Theme(t *testing.T) {
	stored := models.NewSnapshot()
	stored.Theme = models.Ptr("dark")

	cfg := models.NewClientConfig()
	resolveAndApply(t, New(nil), stored, cfg)
	assert.Equal(t, "dark", cfg.Theme)

	cfg = models.NewClientConfig()
	resolveAndApply(t, New(nil), models.NewSnapshot(), cfg)
	assert.Equal(t, models.DefaultTheme, cfg.Theme)

	cfg = models.NewClientConfig()
	cfg.Theme = "contrast"
	resolveAndApply(t, New(nil), stored, cfg)
	assert.Equal(t, "contrast", cfg.Theme)
}

func TestResolve_SysTrayOnlyTurnsOff(t *testing.T) {
	tests := []struct {
		name    string
		current bool
		stored  *bool
		want    bool
	}{
		{"enabled and nothing stored", true, nil, true},
		{"enabled and stored true", true, models.Ptr(true), true},
		{"enabled and stored false", true, models.Ptr(false), false},
		{"disabled and stored true", false, models.Ptr(true), false},
		{"disabled and nothing stored", false, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := models.NewSnapshot()
			snap.UseSysTray = tt.stored
			cfg := models.NewClientConfig()
			cfg.UseSysTray = tt.current

			resolveAndApply(t, New(nil), snap, cfg)

			assert.Equal(t, tt.want, cfg.UseSysTray)
		})
	}
}

func TestResolve_AutoSignInIsUnconditional(t *testing.T) {
	tests := []struct {
		name    string
		current bool
		stored  *bool
		want    bool
	}{
		{"stored true", false, models.Ptr(true), true},
		{"stored false overrides runtime true", true, models.Ptr(false), false},
		{"absent parses to false", true, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := models.NewSnapshot()
			snap.AutoSignIn = tt.stored
			cfg := models.NewClientConfig()
			cfg.AutoSignIn = tt.current

			resolveAndApply(t, New(nil), snap, cfg)

			assert.Equal(t, tt.want, cfg.AutoSignIn)
		})
	}
}

func TestResolve_DoesNotMutateConfiguration(t *testing.T) {
	device := hardware.NewGPUDevice("X", "Test GPU", 8<<30)
	snap := models.NewSnapshot()
	snap.Login = models.Ptr("alice")
	snap.GPUID = models.Ptr("X")
	snap.RenderBucketSize = models.Ptr(64)
	cfg := models.NewClientConfig()
	before := *cfg

	_, err := New(hardware.NewStaticLookup(device)).Resolve(snap, cfg)
	require.NoError(t, err)

	assert.Equal(t, before, *cfg)
	assert.Equal(t, 256, device.RenderBucketSize())
}

func TestApply_NilSafe(t *testing.T) {
	var res *Resolution
	cfg := models.NewClientConfig()
	res.Apply(cfg)
	assert.Equal(t, models.NewClientConfig(), cfg)

	(&Resolution{}).Apply(nil)
}

func TestMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), store.DefaultFileName)
	fileStore := store.NewFileStore(path)

	saved := models.NewSnapshot()
	saved.Login = models.Ptr("alice")
	saved.GPUID = models.Ptr("X")
	saved.RenderBucketSize = models.Ptr(64)
	saved.Priority = 5
	require.NoError(t, fileStore.Save(saved))

	device := hardware.NewGPUDevice("X", "Test GPU", 8<<30)
	cfg := models.NewClientConfig()
	cfg.Login = "bob"

	res, err := New(hardware.NewStaticLookup(device)).Merge(fileStore, cfg)
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "bob", cfg.Login)
	assert.Equal(t, 5, cfg.Priority)
	assert.Equal(t, models.ComputeCPU, cfg.ComputeMethod)
	require.NotNil(t, cfg.GPUDevice)
	assert.Equal(t, "X", cfg.GPUDevice.ID())
	assert.Equal(t, 64, cfg.RenderBucketSize)
}

func TestMerge_NilConfiguration(t *testing.T) {
	fileStore := store.NewFileStore(filepath.Join(t.TempDir(), store.DefaultFileName))

	_, err := New(nil).Merge(fileStore, nil)

	assert.True(t, IsNilConfiguration(err))
}

func TestMerge_SaveRoundTrip(t *testing.T) {
	fileStore := store.NewFileStore(filepath.Join(t.TempDir(), store.DefaultFileName))
	device := hardware.NewGPUDevice("X", "Test GPU", 8<<30)
	r := New(hardware.NewStaticLookup(device))

	cfg := models.NewClientConfig()
	cfg.Login = "alice"
	cfg.ComputeMethod = models.ComputeGPU
	cfg.GPUDevice = device
	cfg.RenderBucketSize = 128
	cfg.MaxMemory = 2048000
	cfg.Priority = 10
	require.NoError(t, fileStore.Save(models.SnapshotFromConfig(cfg)))

	fresh := models.NewClientConfig()
	_, err := r.Merge(fileStore, fresh)
	require.NoError(t, err)

	assert.Equal(t, "alice", fresh.Login)
	assert.Equal(t, models.ComputeGPU, fresh.ComputeMethod)
	assert.Same(t, device, fresh.GPUDevice)
	assert.Equal(t, 128, fresh.RenderBucketSize)
	assert.Equal(t, int64(2048000), fresh.MaxMemory)
	assert.Equal(t, 10, fresh.Priority)
}
