package x11

import (
	"fmt"

	"github.com/jezek/xgb/xinerama"

	"github.com/Jamar-Mitchell/screen-blur-focus/pkg/desktop"
)

// ScreenSource enumerates displays through Xinerama, falling back to the
// root window geometry on single-head servers without it.
type ScreenSource struct {
	client *Client
}

func (s *ScreenSource) Enumerate() ([]desktop.Geometry, error) {
	if !s.client.hasXinerama {
		return []desktop.Geometry{{
			X:      0,
			Y:      0,
			Width:  int(s.client.screen.WidthInPixels),
			Height: int(s.client.screen.HeightInPixels),
		}}, nil
	}

	reply, err := xinerama.QueryScreens(s.client.conn).Reply()
	if err != nil {
		return nil, fmt.Errorf("xinerama query failed: %w", err)
	}

	geoms := make([]desktop.Geometry, 0, len(reply.ScreenInfo))
	for _, info := range reply.ScreenInfo {
		geoms = append(geoms, desktop.Geometry{
			X:      int(info.XOrg),
			Y:      int(info.YOrg),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}

	return geoms, nil
}
