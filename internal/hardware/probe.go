package hardware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SystemInfoCommand is the controller command returning a Snapshot.
const SystemInfoCommand = "systemInfo"

// ErrNoDevices is returned when the controller reports no eligible device.
// No configuration may be sent in that case.
var ErrNoDevices = errors.New("no eligible compute devices found")

// Snapshot is the systemInfo reply.
type Snapshot struct {
	Platforms []Platform `json:"platforms"`
}

// Platform is one compute platform (an OpenCL ICD) on the controller host.
type Platform struct {
	Name    string   `json:"name"`
	Vendor  string   `json:"vendor"`
	Version string   `json:"version,omitempty"`
	Devices []Device `json:"devices"`
}

// Device describes a compute device. CoreClock is in MHz.
type Device struct {
	Type           string `json:"type"`
	Chip           string `json:"chip"`
	Vendor         string `json:"vendor,omitempty"`
	CoreClock      int64  `json:"coreClock"`
	Clusters       int64  `json:"clusters"`
	GlobalMemBytes uint64 `json:"globalMemBytes,omitempty"`

	// Platform is filled in from the enclosing platform by EligibleDevices.
	Platform string `json:"-"`
}

// EstimatedThroughput is CoreClock × Clusters.
func (d Device) EstimatedThroughput() int64 {
	return d.CoreClock * d.Clusters
}

// Eligibility decides whether a device can take part in mining.
type Eligibility func(Platform, Device) bool

// GPUOnly accepts GPUs reporting a positive clock and cluster count.
func GPUOnly(_ Platform, d Device) bool {
	return strings.EqualFold(strings.TrimSpace(d.Type), "GPU") && d.CoreClock > 0 && d.Clusters > 0
}

// EligibleDevices flattens the snapshot into the devices accepted by
// eligible, in platform then device order.
func EligibleDevices(s Snapshot, eligible Eligibility) []Device {
	if eligible == nil {
		eligible = GPUOnly
	}
	var out []Device
	for _, p := range s.Platforms {
		for _, d := range p.Devices {
			if !eligible(p, d) {
				continue
			}
			d.Platform = p.Name
			out = append(out, d)
		}
	}
	return out
}

// Slowest returns the index of the device with the lowest estimated
// throughput. Only a strictly lower value replaces the running minimum, so
// ties resolve to the earliest device.
func Slowest(devices []Device) (int, error) {
	if len(devices) == 0 {
		return -1, ErrNoDevices
	}
	slowest := 0
	lowest := devices[0].EstimatedThroughput()
	for i := 1; i < len(devices); i++ {
		if est := devices[i].EstimatedThroughput(); est < lowest {
			slowest = i
			lowest = est
		}
	}
	return slowest, nil
}

// Requester sends a named request without parameters and returns the raw
// reply.
type Requester interface {
	RequestSimple(ctx context.Context, name string) (json.RawMessage, error)
}

// Prober queries a controller for its devices.
type Prober struct {
	ch       Requester
	eligible Eligibility
}

// NewProber creates a Prober. A nil eligibility uses GPUOnly.
func NewProber(ch Requester, eligible Eligibility) *Prober {
	if eligible == nil {
		eligible = GPUOnly
	}
	return &Prober{ch: ch, eligible: eligible}
}

// Snapshot fetches the raw systemInfo snapshot.
func (p *Prober) Snapshot(ctx context.Context) (Snapshot, error) {
	raw, err := p.ch.RequestSimple(ctx, SystemInfoCommand)
	if err != nil {
		return Snapshot{}, fmt.Errorf("request %s: %w", SystemInfoCommand, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode %s reply: %w", SystemInfoCommand, err)
	}
	return snap, nil
}

// Probe returns the eligible devices. An empty result is ErrNoDevices.
func (p *Prober) Probe(ctx context.Context) ([]Device, error) {
	snap, err := p.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	devices := EligibleDevices(snap, p.eligible)
	if len(devices) == 0 {
		return nil, ErrNoDevices
	}
	return devices, nil
}
