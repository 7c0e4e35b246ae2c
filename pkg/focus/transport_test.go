package focus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Device: "/dev/ttyACM0"}.withDefaults()

	assert.Equal(t, 9600, cfg.BaudRate)
	assert.Equal(t, 8, cfg.DataBits)
	assert.Equal(t, serial.NoParity, cfg.Parity)
	assert.Equal(t, serial.OneStopBit, cfg.StopBits)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.WriteTimeout)
	assert.Equal(t, "utf-8", cfg.Encoding)

	mode := cfg.mode()
	assert.Equal(t, 9600, mode.BaudRate)
	assert.Equal(t, 8, mode.DataBits)
}

func TestFrame(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    string
	}{
		{"plain command", "help", "help\n"},
		{"already terminated", "help\n", "help\n"},
		{"command with argument", "led.mode 1", "led.mode 1\n"},
		{"carriage return kept", "version\r", "version\r\n"},
		{"empty", "", "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Frame(tt.command))
		})
	}
}

func TestTransportSend(t *testing.T) {
	t.Run("appends newline", func(t *testing.T) {
		port := newFakePort()
		opener := &countingOpener{ports: []*fakePort{port}}
		tr := NewTransportWithOpener(Config{Device: "dev"}, opener.open)
		require.NoError(t, tr.Connect())

		require.NoError(t, tr.Send("help"))
		assert.Equal(t, "help\n", port.Written())
	})

	t.Run("does not double newline", func(t *testing.T) {
		port := newFakePort()
		opener := &countingOpener{ports: []*fakePort{port}}
		tr := NewTransportWithOpener(Config{Device: "dev"}, opener.open)
		require.NoError(t, tr.Connect())

		require.NoError(t, tr.Send("help\n"))
		assert.Equal(t, "help\n", port.Written())
		assert.Equal(t, 1, port.writes)
	})

	t.Run("reconnects when closed", func(t *testing.T) {
		first, second := newFakePort(), newFakePort()
		opener := &countingOpener{ports: []*fakePort{first, second}}
		tr := NewTransportWithOpener(Config{Device: "dev"}, opener.open)

		require.NoError(t, tr.Connect())
		require.NoError(t, tr.Disconnect())
		assert.False(t, tr.IsConnected())
		assert.True(t, first.closed)

		require.NoError(t, tr.Send("version"))
		assert.True(t, tr.IsConnected())
		assert.Equal(t, 2, opener.calls)
		assert.Equal(t, "version\n", second.Written())
		assert.Empty(t, first.Written())
	})

	t.Run("reconnect failure", func(t *testing.T) {
		opener := &countingOpener{err: errors.New("no such device")}
		tr := NewTransportWithOpener(Config{Device: "/dev/missing"}, opener.open)

		err := tr.Send("help")
		require.Error(t, err)
		var ce *ConnectionError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "open", ce.Op)
		assert.Equal(t, "/dev/missing", ce.Device)
		assert.True(t, IsConnectionError(err))
	})

	t.Run("write error", func(t *testing.T) {
		port := newFakePort()
		port.writeErr = errors.New("i/o error")
		opener := &countingOpener{ports: []*fakePort{port}}
		tr := NewTransportWithOpener(Config{Device: "dev"}, opener.open)

		err := tr.Send("help")
		var ce *ConnectionError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "write", ce.Op)
	})

	t.Run("write timeout", func(t *testing.T) {
		port := newFakePort()
		port.block = make(chan struct{})
		defer close(port.block)
		opener := &countingOpener{ports: []*fakePort{port}}
		tr := NewTransportWithOpener(Config{Device: "dev", WriteTimeout: 20 * time.Millisecond}, opener.open)

		err := tr.Send("help")
		require.ErrorIs(t, err, ErrWriteTimeout)
	})
}

func TestTransportConnect(t *testing.T) {
	t.Run("open error is a connection error", func(t *testing.T) {
		opener := &countingOpener{err: errors.New("permission denied")}
		tr := NewTransportWithOpener(Config{Device: "/dev/ttyACM0"}, opener.open)

		err := tr.Connect()
		require.Error(t, err)
		assert.True(t, IsConnectionError(err))
		assert.Contains(t, err.Error(), "/dev/ttyACM0")
		assert.False(t, tr.IsConnected())
	})

	t.Run("second connect is a no-op", func(t *testing.T) {
		opener := &countingOpener{ports: []*fakePort{newFakePort()}}
		tr := NewTransportWithOpener(Config{Device: "dev"}, opener.open)

		require.NoError(t, tr.Connect())
		require.NoError(t, tr.Connect())
		assert.Equal(t, 1, opener.calls)
	})

	t.Run("unknown encoding", func(t *testing.T) {
		opener := &countingOpener{ports: []*fakePort{newFakePort()}}
		tr := NewTransportWithOpener(Config{Device: "dev", Encoding: "klingon"}, opener.open)

		require.ErrorIs(t, tr.Connect(), ErrUnknownEncoding)
		assert.Equal(t, 0, opener.calls)
	})

	t.Run("disconnect is idempotent", func(t *testing.T) {
		opener := &countingOpener{ports: []*fakePort{newFakePort()}}
		tr := NewTransportWithOpener(Config{Device: "dev"}, opener.open)

		require.NoError(t, tr.Disconnect())
		require.NoError(t, tr.Connect())
		require.NoError(t, tr.Disconnect())
		require.NoError(t, tr.Disconnect())
	})
}

func TestTransportReadLine(t *testing.T) {
	connect := func(t *testing.T, port *fakePort) *Transport {
		t.Helper()
		opener := &countingOpener{ports: []*fakePort{port}}
		tr := NewTransportWithOpener(Config{Device: "dev"}, opener.open)
		require.NoError(t, tr.Connect())
		return tr
	}

	t.Run("splits chunks into lines", func(t *testing.T) {
		tr := connect(t, newFakePort("ok\r\ndo", "ne\n.\r\n"))

		for _, want := range []string{"ok\r\n", "done\n", ".\r\n"} {
			line, err := tr.ReadLine()
			require.NoError(t, err)
			assert.Equal(t, want, line)
		}
	})

	t.Run("timeout without data is an empty read", func(t *testing.T) {
		tr := connect(t, newFakePort())

		line, err := tr.ReadLine()
		require.NoError(t, err)
		assert.Empty(t, line)
	})

	t.Run("timeout after partial data returns the partial line", func(t *testing.T) {
		tr := connect(t, newFakePort("partial"))

		line, err := tr.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, "partial", line)
	})

	t.Run("closed stream is an empty read", func(t *testing.T) {
		port := newFakePort("last\n")
		port.eof = true
		tr := connect(t, port)

		line, err := tr.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, "last\n", line)

		line, err = tr.ReadLine()
		require.NoError(t, err)
		assert.Empty(t, line)
	})

	t.Run("read error", func(t *testing.T) {
		port := newFakePort()
		port.readErr = errors.New("device unplugged")
		tr := connect(t, port)

		_, err := tr.ReadLine()
		var ce *ConnectionError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "read", ce.Op)
	})

	t.Run("read on closed port", func(t *testing.T) {
		tr := NewTransportWithOpener(Config{Device: "dev"}, (&countingOpener{}).open)

		_, err := tr.ReadLine()
		require.ErrorIs(t, err, ErrPortClosed)
	})
}

func TestTransportEncoding(t *testing.T) {
	// "тест" в windows-1251
	cp1251 := string([]byte{0xf2, 0xe5, 0xf1, 0xf2})

	port := newFakePort(cp1251 + "\n")
	opener := &countingOpener{ports: []*fakePort{port}}
	tr := NewTransportWithOpener(Config{Device: "dev", Encoding: "windows-1251"}, opener.open)
	require.NoError(t, tr.Connect())

	require.NoError(t, tr.Send("тест"))
	assert.Equal(t, cp1251+"\n", port.Written())

	line, err := tr.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "тест\n", line)
}

func TestTransportLogger(t *testing.T) {
	var logged []string
	port := newFakePort("pong\n")
	opener := &countingOpener{ports: []*fakePort{port}}
	tr := NewTransportWithOpener(Config{
		Device: "dev",
		Logger: func(msg string) { logged = append(logged, msg) },
	}, opener.open)
	require.NoError(t, tr.Connect())

	require.NoError(t, tr.Send("ping"))
	_, err := tr.ReadLine()
	require.NoError(t, err)

	assert.Contains(t, logged, ">> TX: ping")
	assert.Contains(t, logged, "<< RX: pong")
}
