package flagx

import (
	"flag"
	"net"
)

// TCPAddr is a flag.Value that resolves whatever string it is given
// to a *net.TCPAddr. backup-pulld uses it for -listen, so the gRPC
// server can bind net.ListenTCP directly off the flag.
type TCPAddr struct {
	Addr *net.TCPAddr
}

var _ flag.Value = (*TCPAddr)(nil)

func (a TCPAddr) String() string {
	return a.Addr.String()
}

func (a *TCPAddr) Set(value string) error {
	if value == "" {
		a.Addr = nil
		return nil
	}

	addr, err := net.ResolveTCPAddr("tcp", value)
	if err != nil {
		return err
	}
	a.Addr = addr
	return nil
}
