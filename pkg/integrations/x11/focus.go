package x11

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// FocusSignal watches _NET_ACTIVE_WINDOW property changes on the root
// window and forwards them as empty notifications. Runs on a dedicated
// connection so event waiting never blocks the render connection.
type FocusSignal struct {
	conn       *xgb.Conn
	activeAtom xproto.Atom
	events     chan struct{}
}

func NewFocusSignal() (*FocusSignal, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect for focus events: %w", err)
	}

	root := xproto.Setup(conn).DefaultScreen(conn).Root

	const atomName = "_NET_ACTIVE_WINDOW"
	atomReply, err := xproto.InternAtom(conn, true, uint16(len(atomName)), atomName).Reply()
	if err != nil || atomReply.Atom == xproto.AtomNone {
		conn.Close()
		return nil, fmt.Errorf("window manager does not expose %s", atomName)
	}

	err = xproto.ChangeWindowAttributesChecked(conn, root,
		xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to subscribe to root property events: %w", err)
	}

	f := &FocusSignal{
		conn:       conn,
		activeAtom: atomReply.Atom,
		events:     make(chan struct{}, 1),
	}
	go f.watch()

	return f, nil
}

func (f *FocusSignal) Notifications() <-chan struct{} {
	return f.events
}

// watch forwards matching property notifications until the connection
// closes. The channel send is non-blocking: a pending notification already
// says everything a second one would.
func (f *FocusSignal) watch() {
	defer close(f.events)

	for {
		event, xerr := f.conn.WaitForEvent()
		if event == nil && xerr == nil {
			return
		}
		if xerr != nil {
			continue
		}

		if prop, ok := event.(xproto.PropertyNotifyEvent); ok && prop.Atom == f.activeAtom {
			select {
			case f.events <- struct{}{}:
			default:
			}
		}
	}
}

func (f *FocusSignal) Close() error {
	f.conn.Close()
	return nil
}
