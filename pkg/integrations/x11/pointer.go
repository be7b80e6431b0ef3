package x11

import (
	"fmt"

	"github.com/jezek/xgb/xproto"
)

// PointerSource reports the global pointer position via QueryPointer on the
// root window.
type PointerSource struct {
	client *Client
}

func (p *PointerSource) CurrentPosition() (int, int, error) {
	reply, err := xproto.QueryPointer(p.client.conn, p.client.root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("pointer query failed: %w", err)
	}
	return int(reply.RootX), int(reply.RootY), nil
}
