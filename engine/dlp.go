package engine

import (
	"io"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"go.bug.st/serial"

	"github.com/NavuFrank/The-Quantized-Observer/session"
	"github.com/NavuFrank/The-Quantized-Observer/trial"
)

// Trigger lines on the DLP-IO8-G.
const (
	LineTrialOnset = "1"
	LineYes        = "2"
	LineNo         = "3"
	LineManualLog  = "4"
)

const pulseWidth = 5 * time.Millisecond

// DLPIO8G drives the digital lines of a DLP-IO8-G over its serial port. A
// digit sets a line high; the matching letter on the row below sets it low.
type DLPIO8G struct {
	port io.ReadWriteCloser
}

func NewDLPIO8G(device string, baudrate int) (*DLPIO8G, error) {
	mode := &serial.Mode{
		BaudRate: baudrate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open serial port", goerr.V("device", device))
	}
	if err := port.SetReadTimeout(time.Second); err != nil {
		port.Close()
		return nil, goerr.Wrap(err, "failed to set read timeout", goerr.V("device", device))
	}

	d, err := newDLP(port)
	if err != nil {
		return nil, goerr.Wrap(err, "DLP-IO8-G init failed", goerr.V("device", device))
	}
	return d, nil
}

// newDLP pings the device and switches it to binary mode.
func newDLP(port io.ReadWriteCloser) (*DLPIO8G, error) {
	d := &DLPIO8G{port: port}
	if !d.Ping() {
		port.Close()
		return nil, goerr.New("device did not respond to ping")
	}
	if _, err := port.Write([]byte{'\\'}); err != nil {
		port.Close()
		return nil, goerr.Wrap(err, "failed to select binary mode")
	}
	return d, nil
}

func (d *DLPIO8G) Close() {
	if d.port != nil {
		d.port.Close()
	}
}

func (d *DLPIO8G) Ping() bool {
	if _, err := d.port.Write([]byte{'\''}); err != nil {
		return false
	}
	buf := make([]byte, 1)
	n, err := d.port.Read(buf)
	return err == nil && n == 1 && buf[0] == 'Q'
}

func (d *DLPIO8G) Set(lines string) error {
	if _, err := d.port.Write([]byte(lines)); err != nil {
		return goerr.Wrap(err, "dlp set failed", goerr.V("lines", lines))
	}
	return nil
}

var unsetCodes = map[byte]byte{
	'1': 'Q', '2': 'W', '3': 'E', '4': 'R',
	'5': 'T', '6': 'Y', '7': 'U', '8': 'I',
}

func (d *DLPIO8G) Unset(lines string) error {
	cmd := []byte(lines)
	for i := range cmd {
		if c, ok := unsetCodes[cmd[i]]; ok {
			cmd[i] = c
		}
	}
	if _, err := d.port.Write(cmd); err != nil {
		return goerr.Wrap(err, "dlp unset failed", goerr.V("lines", lines))
	}
	return nil
}

func (d *DLPIO8G) Pulse(lines string) error {
	if err := d.Set(lines); err != nil {
		return err
	}
	time.Sleep(pulseWidth)
	return d.Unset(lines)
}

// Trigger marks session events on the trigger box. A nil device is a no-op
// so the loop does not need to care whether one is attached.
type Trigger struct {
	dlp    *DLPIO8G
	logger *slog.Logger
}

func NewTrigger(dlp *DLPIO8G, logger *slog.Logger) *Trigger {
	return &Trigger{dlp: dlp, logger: logger}
}

func (t *Trigger) Mark(ev session.Event) {
	if t == nil || t.dlp == nil {
		return
	}

	var err error
	switch ev.Kind {
	case session.EventTrialStarted:
		err = t.dlp.Set(LineTrialOnset)
	case session.EventBlindExited:
		err = t.dlp.Unset(LineTrialOnset)
	case session.EventLogged:
		switch {
		case ev.Record.Mode == trial.Manual:
			err = t.dlp.Pulse(LineManualLog)
		case ev.Record.SawFlicker:
			if err = t.dlp.Unset(LineTrialOnset); err == nil {
				err = t.dlp.Pulse(LineYes)
			}
		default:
			if err = t.dlp.Unset(LineTrialOnset); err == nil {
				err = t.dlp.Pulse(LineNo)
			}
		}
	}
	if err != nil {
		t.logger.Warn("trigger write failed", "error", err)
	}
}
