package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chrispurusha/g2edit/internal/catalog"
	"github.com/chrispurusha/g2edit/internal/patchdb"
	"github.com/chrispurusha/g2edit/internal/protocol"
	"github.com/chrispurusha/g2edit/internal/queue"
	"github.com/chrispurusha/g2edit/internal/transport"
)

// fakeTransport is a minimal deviceTransport that serves a scripted
// sequence of interrupt/bulk reads and records every write, so tests can
// drive the state machine without a real USB device.
type fakeTransport struct {
	open       bool
	openErr    error
	writes     [][]byte
	interrupts [][]byte
	bulks      [][]byte
}

func (f *fakeTransport) Open() error {
	if f.openErr != nil {
		return f.openErr
	}
	f.open = true
	return nil
}

func (f *fakeTransport) Close() error {
	f.open = false
	return nil
}

func (f *fakeTransport) IsOpen() bool { return f.open }

func (f *fakeTransport) Write(data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	f.writes = append(f.writes, cp)
	return nil
}

func (f *fakeTransport) ReadInterrupt(buf []byte) (int, error) {
	if len(f.interrupts) == 0 {
		return 0, nil
	}
	n := copy(buf, f.interrupts[0])
	f.interrupts = f.interrupts[1:]
	return n, nil
}

func (f *fakeTransport) ReadBulk(buf []byte) (int, error) {
	if len(f.bulks) == 0 {
		return 0, nil
	}
	n := copy(buf, f.bulks[0])
	f.bulks = f.bulks[1:]
	return n, nil
}

// embeddedOK builds a single-byte-header interrupt frame carrying an
// embedded OK response for the given slot.
func embeddedOK(slot uint8) []byte {
	payload := protocol.BuildCommandFrame(0x20|slot, 0x41, protocol.SubResponseOK, nil)
	body, _ := protocol.StripAndVerifyCRC(payload[2:])
	header := byte(len(body) << 4) | protocol.InterruptTypeEmbedded
	return append([]byte{header}, body...)
}

func newTestMachine(ft *fakeTransport) *Machine {
	db := patchdb.New()
	codec := protocol.NewCodec(catalog.Default(), db, nil)
	q := queue.New(4)
	return New(nil, codec, db, q, nil, nil).withFakeTransport(ft)
}

// withFakeTransport swaps in a fake for tests; the real constructor takes
// a *transport.Transport, which a test has no way to construct headlessly.
func (m *Machine) withFakeTransport(ft deviceTransport) *Machine {
	m.Transport = ft
	return m
}

func TestStepFindDeviceAdvancesOnOpen(t *testing.T) {
	ft := &fakeTransport{}
	m := newTestMachine(ft)
	m.Step()
	require.Equal(t, StateInit, m.State())
	require.True(t, ft.open)
}

func TestSequenceAdvancesThroughInitOnOK(t *testing.T) {
	ft := &fakeTransport{open: true}
	m := newTestMachine(ft)
	m.state = StateInit

	ft.interrupts = append(ft.interrupts, embeddedOK(0))
	m.Step()
	require.Equal(t, StateStop, m.State())
	require.Len(t, ft.writes, 1)
}

func TestStopStateClearsPatchAndNotifies(t *testing.T) {
	ft := &fakeTransport{open: true}
	m := newTestMachine(ft)
	key := patchdb.ModuleKey{Slot: 0, Location: patchdb.LocationFX, Index: 0}
	m.DB.WriteModule(key, patchdb.Module{Key: key, Type: 1})

	obs := &countingObserver{}
	m.Observer = obs
	m.state = StateStop
	ft.interrupts = append(ft.interrupts, embeddedOK(0))

	m.Step()

	require.Equal(t, StateGetSynthSettings, m.State())
	_, ok := m.DB.ReadModule(key)
	require.False(t, ok)
	require.Equal(t, 1, obs.fullPatchChanges)
}

func TestPollDrainsQueueBeforeReading(t *testing.T) {
	ft := &fakeTransport{open: true}
	m := newTestMachine(ft)
	m.state = StatePoll
	require.NoError(t, m.Queue.Send([]byte{0xde, 0xad}))

	m.Step()

	require.Len(t, ft.writes, 1)
	require.Equal(t, []byte{0xde, 0xad}, ft.writes[0])
}

func TestNoDeviceErrorResetsToFindDevice(t *testing.T) {
	ft := &fakeTransport{}
	m := newTestMachine(ft)
	m.state = StatePoll
	m.Transport = &erroringTransport{err: transport.ErrNoDevice}

	m.Step()

	require.Equal(t, StateFindDevice, m.State())
}

type countingObserver struct {
	wakes            int
	fullPatchChanges int
}

func (c *countingObserver) Wake()            { c.wakes++ }
func (c *countingObserver) FullPatchChange() { c.fullPatchChanges++ }

// erroringTransport always fails reads with a fixed error, used to drive
// the bad-connection reset path.
type erroringTransport struct {
	err error
}

func (e *erroringTransport) Open() error  { return nil }
func (e *erroringTransport) Close() error { return nil }
func (e *erroringTransport) IsOpen() bool { return true }
func (e *erroringTransport) Write([]byte) error {
	return e.err
}
func (e *erroringTransport) ReadInterrupt(buf []byte) (int, error) { return 0, e.err }
func (e *erroringTransport) ReadBulk(buf []byte) (int, error)      { return 0, e.err }
