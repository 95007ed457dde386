// Package hardware enumerates GPUs and resolves stored device identifiers.
package hardware

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jaypipes/ghw"
	"github.com/jaypipes/ghw/pkg/gpu"

	"github.com/stwalsh4118/sheepit-settings/internal/logger"
	"github.com/stwalsh4118/sheepit-settings/internal/models"
)

// Bucket sizes handed out to detected devices
const (
	smallBucketSize = 128
	largeBucketSize = 256

	// largeBucketMemory is the device memory above which larger buckets are used.
	largeBucketMemory = 1 << 30
)

// Vendor groups devices for identifier generation
type Vendor string

// Vendor constants
const (
	VendorNVIDIA  Vendor = "NVIDIA"
	VendorAMD     Vendor = "AMD"
	VendorIntel   Vendor = "INTEL"
	VendorUnknown Vendor = "GPU"
)

// String returns the string representation of the vendor
func (v Vendor) String() string {
	return string(v)
}

// GPUDevice is a detected graphics card
type GPUDevice struct {
	id          string
	model       string
	address     string
	memoryBytes int64
	bucketSize  int
}

// NewGPUDevice creates a device whose bucket size starts at the recommended value
func NewGPUDevice(id, model string, memoryBytes int64) *GPUDevice {
	return &GPUDevice{
		id:          id,
		model:       model,
		memoryBytes: memoryBytes,
		bucketSize:  RecommendedBucketSize(memoryBytes),
	}
}

// ID returns the identifier stored in the settings file
func (d *GPUDevice) ID() string { return d.id }

// Model returns the product name
func (d *GPUDevice) Model() string { return d.model }

// Address returns the PCI address, empty when unknown
func (d *GPUDevice) Address() string { return d.address }

// MemoryBytes returns the usable device memory, 0 when unknown
func (d *GPUDevice) MemoryBytes() int64 { return d.memoryBytes }

// RenderBucketSize returns the bucket size used for rendering
func (d *GPUDevice) RenderBucketSize() int { return d.bucketSize }

// SetRenderBucketSize changes the bucket size. Sizes below the minimum are raised to it.
func (d *GPUDevice) SetRenderBucketSize(size int) {
	if size < models.MinRenderBucketSize {
		size = models.MinRenderBucketSize
	}
	d.bucketSize = size
}

// RecommendedBucketSize returns the bucket size suited to this device
func (d *GPUDevice) RecommendedBucketSize() int {
	return RecommendedBucketSize(d.memoryBytes)
}

// RecommendedBucketSize picks a bucket size from the device memory
func RecommendedBucketSize(memoryBytes int64) int {
	if memoryBytes > largeBucketMemory {
		return largeBucketSize
	}
	return smallBucketSize
}

// cardInfo is the subset of a ghw graphics card needed to build a device
type cardInfo struct {
	vendor      string
	product     string
	address     string
	memoryBytes int64
}

// Detector enumerates GPUs once and serves lookups from the cached list
type Detector struct {
	probe func() ([]cardInfo, error)

	once    sync.Once
	devices []*GPUDevice
	err     error
}

// NewDetector creates a detector backed by ghw
func NewDetector() *Detector {
	return &Detector{probe: probeGraphicsCards}
}

// NewFixedDetector creates a detector that serves devices without probing the
// host. With no devices it reports an empty machine.
func NewFixedDetector(devices ...*GPUDevice) *Detector {
	d := &Detector{probe: func() ([]cardInfo, error) { return nil, nil }}
	d.once.Do(func() { d.devices = devices })
	return d
}

// Devices returns the detected GPUs
func (d *Detector) Devices() ([]*GPUDevice, error) {
	d.once.Do(func() {
		cards, err := d.probe()
		if err != nil {
			logger.Log.Warn().
				Err(err).
				Msg("GPU detection failed")
			d.err = fmt.Errorf("failed to detect gpus: %w", err)
			return
		}
		d.devices = buildDevices(cards)

		ids := make([]string, len(d.devices))
		for i, device := range d.devices {
			ids[i] = device.ID()
		}
		logger.Log.Debug().
			Strs("gpus", ids).
			Msg("Detected GPUs")
	})
	return d.devices, d.err
}

// Lookup finds a device by identifier or PCI address
func (d *Detector) Lookup(id string) (models.Device, error) {
	devices, err := d.Devices()
	if err != nil {
		return nil, err
	}
	for _, device := range devices {
		if device.id == id || (device.address != "" && device.address == id) {
			return device, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", models.ErrDeviceNotFound, id)
}

// probeGraphicsCards reads graphics cards through ghw
func probeGraphicsCards() ([]cardInfo, error) {
	info, err := ghw.GPU()
	if err != nil {
		return nil, err
	}
	cards := make([]cardInfo, 0, len(info.GraphicsCards))
	for _, card := range info.GraphicsCards {
		if card == nil {
			continue
		}
		cards = append(cards, describeCard(card))
	}
	return cards, nil
}

func describeCard(card *gpu.GraphicsCard) cardInfo {
	info := cardInfo{address: card.Address}
	if card.DeviceInfo != nil {
		if card.DeviceInfo.Vendor != nil {
			info.vendor = card.DeviceInfo.Vendor.Name
		}
		if card.DeviceInfo.Product != nil {
			info.product = card.DeviceInfo.Product.Name
		}
	}
	if card.Node != nil && card.Node.Memory != nil && card.Node.Memory.TotalUsableBytes > 0 {
		info.memoryBytes = card.Node.Memory.TotalUsableBytes
	}
	return info
}

// buildDevices assigns identifiers of the form VENDOR_N, numbered per vendor
// in enumeration order.
func buildDevices(cards []cardInfo) []*GPUDevice {
	counters := make(map[Vendor]int)
	devices := make([]*GPUDevice, 0, len(cards))
	for _, card := range cards {
		vendor := classifyVendor(card.vendor)
		id := fmt.Sprintf("%s_%d", vendor, counters[vendor])
		counters[vendor]++

		model := card.product
		if model == "" {
			model = "Unknown " + strings.ToLower(vendor.String()) + " device"
		}

		device := NewGPUDevice(id, model, card.memoryBytes)
		device.address = card.address
		devices = append(devices, device)
	}
	return devices
}

// classifyVendor maps a PCI vendor name to a Vendor
func classifyVendor(name string) Vendor {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "nvidia"):
		return VendorNVIDIA
	case strings.Contains(lower, "advanced micro devices"), strings.Contains(lower, "amd"), strings.Contains(lower, "ati "):
		return VendorAMD
	case strings.Contains(lower, "intel"):
		return VendorIntel
	default:
		return VendorUnknown
	}
}

// StaticLookup serves a fixed set of devices
type StaticLookup struct {
	devices map[string]models.Device
}

// NewStaticLookup creates a lookup over the given devices
func NewStaticLookup(devices ...models.Device) *StaticLookup {
	l := &StaticLookup{devices: make(map[string]models.Device, len(devices))}
	for _, device := range devices {
		l.devices[device.ID()] = device
	}
	return l
}

// Lookup finds a device by identifier
func (l *StaticLookup) Lookup(id string) (models.Device, error) {
	device, ok := l.devices[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrDeviceNotFound, id)
	}
	return device, nil
}
