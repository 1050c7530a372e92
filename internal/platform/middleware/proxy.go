// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/taibuivan/lexora/internal/platform/constants"
)

// # Trusted Proxies

/*
TrustProxies rewrites RemoteAddr to the forwarded client address, but only
when the direct peer sits inside one of the trusted prefixes.

Description:

  - X-Forwarded-For is walked right to left, skipping trusted hops. The first
    untrusted address is the client.
  - X-Real-IP is used when X-Forwarded-For is absent.
  - With no prefixes, or an untrusted peer, the headers are ignored and the
    socket address stands.

Mount it ahead of the rate limiters so that both key on the same address.
*/
func TrustProxies(trusted []netip.Prefix) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(trusted) == 0 {
			return next
		}

		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			peer, ok := parseAddr(RealIP(request))
			if ok && isTrusted(trusted, peer) {
				if client, found := forwardedClient(request, trusted); found {
					request.RemoteAddr = net.JoinHostPort(client.String(), "0")
				}
			}
			next.ServeHTTP(writer, request)
		})
	}
}

func forwardedClient(request *http.Request, trusted []netip.Prefix) (netip.Addr, bool) {
	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		hops := strings.Split(forwarded, ",")

		var leftmost netip.Addr
		for i := len(hops) - 1; i >= 0; i-- {
			hop, ok := parseAddr(strings.TrimSpace(hops[i]))
			if !ok {
				// A malformed hop ends the chain we can vouch for.
				return leftmost, leftmost.IsValid()
			}
			if !isTrusted(trusted, hop) {
				return hop, true
			}
			leftmost = hop
		}
		return leftmost, leftmost.IsValid()
	}

	return parseAddr(strings.TrimSpace(request.Header.Get(constants.HeaderXRealIP)))
}

func parseAddr(raw string) (netip.Addr, bool) {
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

func isTrusted(trusted []netip.Prefix, addr netip.Addr) bool {
	for _, prefix := range trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
