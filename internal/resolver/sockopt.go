package resolver

import (
	"net"

	"golang.org/x/sys/unix"
)

// raiseReceiveBuffer asks the kernel for a receive buffer large enough to
// hold the biggest answer we accept, so a burst of concurrent lookups on a
// loaded host doesn't drop datagrams. Best effort: the kernel may clamp the
// value and some environments forbid the call entirely.
func raiseReceiveBuffer(conn *net.UDPConn) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return
	}
	_ = raw.Control(func(fd uintptr) {
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, MaxAnswerSize)
	})
}
