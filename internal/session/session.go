// Package session drives the connection state machine that takes a G2
// from "not yet found" through initialization to steady-state polling,
// mirroring usb_thread_loop/state_handler: a single-threaded loop that
// owns the device handle and the patch database's write side.
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/chrispurusha/g2edit/internal/patchdb"
	"github.com/chrispurusha/g2edit/internal/protocol"
	"github.com/chrispurusha/g2edit/internal/queue"
	"github.com/chrispurusha/g2edit/internal/transport"
)

// State is one step of the connection sequence. Values from Init through
// Start increment in order exactly as the device expects them to be
// asked for; Poll is the steady state reached once Start succeeds.
type State int

const (
	StateFindDevice State = iota
	StateInit
	StateStop
	StateGetSynthSettings
	StateGetUnknown1
	StateGetUnknown2
	StateSelectSlot
	StateGetPatchVersionA
	StateGetPatchVersionB
	StateGetPatchVersionC
	StateGetPatchVersionD
	StateGetPatchSlotA
	StateGetPatchSlotB
	StateGetPatchSlotC
	StateGetPatchSlotD
	StateGetPatchNameA
	StateGetPatchNameB
	StateGetPatchNameC
	StateGetPatchNameD
	StateStart
	StatePoll
)

func (s State) String() string {
	names := [...]string{
		"FindDevice", "Init", "Stop", "GetSynthSettings", "GetUnknown1", "GetUnknown2",
		"SelectSlot",
		"GetPatchVersionA", "GetPatchVersionB", "GetPatchVersionC", "GetPatchVersionD",
		"GetPatchSlotA", "GetPatchSlotB", "GetPatchSlotC", "GetPatchSlotD",
		"GetPatchNameA", "GetPatchNameB", "GetPatchNameC", "GetPatchNameD",
		"Start", "Poll",
	}
	if int(s) < 0 || int(s) >= len(names) {
		return "Unknown"
	}
	return names[s]
}

// Observer receives the two notifications the session loop raises: Wake
// fires after every processed interrupt/command regardless of content
// (there might be something new to redraw), FullPatchChange fires only
// around a Stop/Start transition, when the patch database was just
// cleared or just finished refilling.
type Observer interface {
	Wake()
	FullPatchChange()
}

// NopObserver implements Observer by doing nothing, useful for tests and
// headless use.
type NopObserver struct{}

func (NopObserver) Wake()             {}
func (NopObserver) FullPatchChange()  {}

// deviceTransport is the subset of *transport.Transport the machine
// needs; satisfied by the real transport and by fakes in tests.
type deviceTransport interface {
	Open() error
	Close() error
	IsOpen() bool
	Write([]byte) error
	ReadInterrupt([]byte) (int, error)
	ReadBulk([]byte) (int, error)
}

const (
	interruptBufSize = 64
	extendedBufSize  = 4096
)

// Machine is the connection state machine. It is not safe for concurrent
// use: Step must be called from one goroutine, though the Queue it reads
// outgoing edits from may be fed from any number of others.
type Machine struct {
	Transport deviceTransport
	Codec     *protocol.Codec
	DB        *patchdb.DB
	Queue     *queue.Queue
	Observer  Observer
	Log       *slog.Logger

	state         State
	badConnection bool
	patchChanged  bool
}

// New returns a Machine in its initial FindDevice state.
func New(t *transport.Transport, codec *protocol.Codec, db *patchdb.DB, q *queue.Queue, obs Observer, log *slog.Logger) *Machine {
	if obs == nil {
		obs = NopObserver{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Machine{Transport: t, Codec: codec, DB: db, Queue: q, Observer: obs, Log: log, state: StateFindDevice}
}

// State returns the machine's current state, chiefly for tests and logging.
func (m *Machine) State() State {
	return m.state
}

// Run drives Step in a loop until ctx is cancelled.
func (m *Machine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		m.Step()
	}
}

// Step advances the machine by exactly one state transition's worth of
// I/O, or one poll iteration in the Poll state. Its blocking is bounded:
// at most one write and two retried reads (interrupt, then bulk), or a
// 100 ms pause after a failed open in FindDevice.
func (m *Machine) Step() {
	switch m.state {
	case StateFindDevice:
		m.stepFindDevice()
	case StatePoll:
		m.stepPoll()
	default:
		m.stepSequence()
	}

	if m.badConnection {
		m.Log.Warn("lost connection, rescanning")
		m.state = StateFindDevice
		m.badConnection = false
		m.Transport.Close()
	}
	if m.patchChanged {
		m.Log.Info("device reported a patch change, refetching")
		m.state = StateStop
		m.patchChanged = false
	}
}

func (m *Machine) stepFindDevice() {
	if err := m.Transport.Open(); err != nil {
		time.Sleep(100 * time.Millisecond)
		return
	}
	m.state = StateInit
}

// stepSequence sends the one command each initialization state implies,
// waits for its response, and advances to the next state in sequence.
func (m *Machine) stepSequence() {
	frame := m.buildCommand(m.state)
	if len(frame) == 0 {
		m.Log.Warn("no command for state", "state", m.state)
		return
	}
	if err := m.Transport.Write(frame); err != nil {
		m.noteTransportError(err)
		return
	}
	if err := m.receiveOne(); err != nil {
		m.noteTransportError(err)
		return
	}

	switch m.state {
	case StateStop:
		m.DB.ClearModules()
		m.DB.ClearCables()
		m.Observer.FullPatchChange()
		m.Observer.Wake()
	case StateStart:
		m.Observer.FullPatchChange()
		m.Observer.Wake()
	}
	m.state++
}

func (m *Machine) stepPoll() {
	if item, err := m.Queue.TryReceive(); err == nil {
		if frame, ok := item.([]byte); ok {
			if err := m.Transport.Write(frame); err != nil {
				m.noteTransportError(err)
			}
		}
		return
	}
	if err := m.receiveOne(); err != nil && !errors.Is(err, transport.ErrTimeout) {
		m.noteTransportError(err)
	}
}

func (m *Machine) noteTransportError(err error) {
	if errors.Is(err, transport.ErrNoDevice) {
		m.badConnection = true
		return
	}
	m.Log.Debug("transport error", "err", err)
}

// buildCommand constructs the outgoing frame for a state in the
// connection sequence. Per-slot states are laid out four in a row
// (A..D) so the slot number is the state's offset from the first of
// the run, exactly as the original enum ordering lets it do C-side.
func (m *Machine) buildCommand(s State) []byte {
	switch s {
	case StateInit:
		return protocol.Reset()
	case StateStop:
		return protocol.StartStop(true)
	case StateStart:
		return protocol.StartStop(false)
	case StateGetSynthSettings:
		return protocol.GetSynthSettings()
	case StateGetUnknown1:
		return protocol.GetUnknown1()
	case StateGetUnknown2:
		return protocol.GetUnknown2()
	case StateSelectSlot:
		return protocol.SelectSlot(0)
	case StateGetPatchVersionA, StateGetPatchVersionB, StateGetPatchVersionC, StateGetPatchVersionD:
		slot := uint8(s - StateGetPatchVersionA)
		return protocol.GetPatchVersion(slot)
	case StateGetPatchSlotA, StateGetPatchSlotB, StateGetPatchSlotC, StateGetPatchSlotD:
		slot := uint8(s - StateGetPatchSlotA)
		return protocol.GetPatchSlot(slot, m.DB.PatchVersion(slot))
	case StateGetPatchNameA, StateGetPatchNameB, StateGetPatchNameC, StateGetPatchNameD:
		slot := uint8(s - StateGetPatchNameA)
		return protocol.GetPatchName(slot, m.DB.PatchVersion(slot))
	default:
		return nil
	}
}

// receiveOne reads and dispatches exactly one interrupt-endpoint frame,
// following it with an extended bulk read when the interrupt signals
// one is pending. This mirrors int_rec/rcv_extended: the interrupt
// frame's high nibble is a small embedded payload length, its low
// nibble says whether the payload arrived embedded in this same buffer
// or must be fetched separately over the bulk endpoint. An empty read
// is reported as transport.ErrTimeout.
func (m *Machine) receiveOne() error {
	buf := make([]byte, interruptBufSize)
	n, err := m.Transport.ReadInterrupt(buf)
	if err != nil {
		return err
	}
	if n == 0 {
		return transport.ErrTimeout
	}
	buf = buf[:n]

	header := buf[0]
	dataLength := int(header >> 4)
	frameType := header & 0x0f

	switch frameType {
	case protocol.InterruptTypeExtended:
		if n < 3 {
			return protocol.ErrShortFrame
		}
		extLength := int(buf[1])<<8 | int(buf[2])
		return m.receiveExtended(extLength)
	case protocol.InterruptTypeEmbedded:
		if n < 1+dataLength {
			return protocol.ErrShortFrame
		}
		ind, err := m.Codec.ParseIncoming(buf[1 : 1+dataLength])
		if err != nil {
			return err
		}
		m.applyIndication(ind)
		return nil
	default:
		return protocol.ErrUnknownResponse
	}
}

func (m *Machine) receiveExtended(dataLength int) error {
	if dataLength <= 0 || dataLength > extendedBufSize {
		return protocol.ErrShortFrame
	}
	buf := make([]byte, dataLength)
	n, err := m.Transport.ReadBulk(buf)
	if err != nil {
		return err
	}
	if n != dataLength {
		return protocol.ErrShortFrame
	}
	body, err := protocol.StripAndVerifyCRC(buf)
	if err != nil {
		return err
	}
	ind, err := m.Codec.ParseIncoming(body)
	if err != nil {
		return err
	}
	m.applyIndication(ind)
	return nil
}

func (m *Machine) applyIndication(ind protocol.Indication) {
	switch ind.Kind {
	case protocol.IndicationPatchVersionChange:
		m.patchChanged = true
	case protocol.IndicationPatchVersion:
		if m.state >= StateGetPatchVersionA && m.state <= StateGetPatchVersionD {
			m.DB.SetPatchVersion(uint8(m.state-StateGetPatchVersionA), ind.PatchVersion)
		}
	}
	m.Observer.Wake()
}
