/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package channel

import (
	"context"
	"fmt"
	"net"
	"os"
	"syscall"
)

// listenTCP binds network/address. When backlog <= 0, or network isn't one
// of the tcp variants, it defers to net.ListenConfig, which leaves the
// kernel's own backlog default in place.
//
// Go's net.ListenConfig has no knob for the listen(2) backlog: the
// Control callback runs before bind/listen, but the backlog value the
// runtime actually passes to listen(2) is always its own internal
// constant derived from SOMAXCONN, never anything set during Control.
// Honoring Config.Backlog therefore means building the socket by hand and
// handing the resulting file descriptor to net.FileListener.
func listenTCP(ctx context.Context, network, address string, backlog int) (net.Listener, error) {
	if backlog <= 0 {
		return (&net.ListenConfig{}).Listen(ctx, network, address)
	}

	domain, ok := tcpDomain(network)
	if !ok {
		return (&net.ListenConfig{}).Listen(ctx, network, address)
	}

	addr, err := net.ResolveTCPAddr(network, address)
	if err != nil {
		return nil, fmt.Errorf("resolving %s %s: %w", network, address, err)
	}

	fd, err := syscall.Socket(domain, syscall.SOCK_STREAM, syscall.IPPROTO_TCP)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}

	if err = syscall.SetsockoptInt(fd, syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1); err != nil {
		_ = syscall.Close(fd)
		return nil, fmt.Errorf("setsockopt SO_REUSEADDR: %w", err)
	}

	sa, err := tcpSockaddr(addr, domain)
	if err != nil {
		_ = syscall.Close(fd)
		return nil, err
	}

	if err = syscall.Bind(fd, sa); err != nil {
		_ = syscall.Close(fd)
		return nil, fmt.Errorf("bind %s: %w", address, err)
	}

	if err = syscall.Listen(fd, backlog); err != nil {
		_ = syscall.Close(fd)
		return nil, fmt.Errorf("listen backlog %d: %w", backlog, err)
	}

	f := os.NewFile(uintptr(fd), "channelcore-listen")
	ln, err := net.FileListener(f)
	_ = f.Close()
	if err != nil {
		return nil, fmt.Errorf("wrapping listening fd: %w", err)
	}

	return ln, nil
}

func tcpDomain(network string) (int, bool) {
	switch network {
	case "tcp", "tcp4":
		return syscall.AF_INET, true
	case "tcp6":
		return syscall.AF_INET6, true
	default:
		return 0, false
	}
}

func tcpSockaddr(addr *net.TCPAddr, domain int) (syscall.Sockaddr, error) {
	if domain == syscall.AF_INET6 {
		sa := &syscall.SockaddrInet6{Port: addr.Port}
		copy(sa.Addr[:], addr.IP.To16())
		return sa, nil
	}

	sa := &syscall.SockaddrInet4{Port: addr.Port}
	ip4 := addr.IP.To4()
	if ip4 == nil {
		ip4 = net.IPv4zero.To4()
	}
	copy(sa.Addr[:], ip4)
	return sa, nil
}
