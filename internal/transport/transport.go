package transport

import (
	"errors"
	"log/slog"
	"time"
)

// Config holds the transport layer's tunables. RescanBackoff is carried
// here but not read by this package or by the session machine. Defaults
// mirror the literal constants used throughout the
// original implementation's usb comms loop.
type Config struct {
	VendorID     int
	ProductID    int
	IOTimeout    time.Duration
	MaxRetries   int
	RetrySleep   time.Duration
	RescanBackoff time.Duration
}

// DefaultConfig returns the tunables the reference implementation hardcodes.
func DefaultConfig() Config {
	return Config{
		VendorID:      VendorID,
		ProductID:     ProductID,
		IOTimeout:     100 * time.Millisecond,
		MaxRetries:    5,
		RetrySleep:    time.Millisecond,
		RescanBackoff: 100 * time.Millisecond,
	}
}

// Transport wraps a Device with the retry/timeout discipline the session
// state machine expects: a bulk read that silently retries on empty reads
// and gives up (reporting ErrNoDevice) once the device is gone.
type Transport struct {
	cfg    Config
	device *Device
	log    *slog.Logger
}

func New(cfg Config, log *slog.Logger) *Transport {
	if log == nil {
		log = slog.Default()
	}
	return &Transport{cfg: cfg, log: log}
}

// Open scans the bus for a matching device, opens it, resets it and claims
// its interface. It returns ErrNoDevice if no matching device is present.
func (t *Transport) Open() error {
	dev, err := FindDevice(t.cfg.VendorID, t.cfg.ProductID)
	if err != nil {
		return err
	}
	if dev == nil {
		return ErrNoDevice
	}
	if err := dev.Open(); err != nil {
		return err
	}
	if err := dev.Reset(); err != nil {
		dev.Close()
		return err
	}
	if err := dev.Claim(); err != nil {
		dev.Close()
		return err
	}
	t.device = dev
	return nil
}

func (t *Transport) Close() error {
	if t.device == nil {
		return nil
	}
	err := t.device.Close()
	t.device = nil
	return err
}

func (t *Transport) IsOpen() bool {
	return t.device != nil && t.device.IsOpen()
}

// Write sends a single bulk-out transfer on the command endpoint.
func (t *Transport) Write(data []byte) error {
	if t.device == nil {
		return ErrNoDevice
	}
	_, err := t.device.Bulk(EndpointBulkOut, data, uint32(t.cfg.IOTimeout.Milliseconds()))
	return err
}

// ReadInterrupt reads one interrupt-endpoint frame, retrying on empty short
// reads up to MaxRetries times with RetrySleep between attempts. It reports
// ErrNoDevice as soon as a transfer indicates the device has disappeared,
// without exhausting the remaining retries.
func (t *Transport) ReadInterrupt(buf []byte) (int, error) {
	return t.readRetrying(EndpointInterruptIn, buf)
}

// ReadBulk reads one bulk-in frame with the same retry discipline.
func (t *Transport) ReadBulk(buf []byte) (int, error) {
	return t.readRetrying(EndpointBulkIn, buf)
}

func (t *Transport) readRetrying(ep uint8, buf []byte) (int, error) {
	if t.device == nil {
		return 0, ErrNoDevice
	}
	timeoutMS := uint32(t.cfg.IOTimeout.Milliseconds())
	var lastErr error
	for attempt := 0; attempt < t.cfg.MaxRetries; attempt++ {
		n, err := t.device.Bulk(ep, buf, timeoutMS)
		if err != nil {
			if errors.Is(err, ErrNoDevice) {
				return 0, ErrNoDevice
			}
			if errors.Is(err, ErrTimeout) {
				lastErr = err
				continue
			}
			return 0, err
		}
		if n > 0 {
			return n, nil
		}
		t.log.Debug("empty read, retrying", "endpoint", ep, "attempt", attempt)
		time.Sleep(t.cfg.RetrySleep)
	}
	if lastErr != nil {
		return 0, lastErr
	}
	return 0, nil
}
