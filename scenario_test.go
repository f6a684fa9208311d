package catchment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOverlayCollapseLastWriteWins(t *testing.T) {
	e := &Edge{ID: 7, Class: CLASS_FOOTWAY}
	overlay := &ScenarioOverlay{
		ID: "s",
		Edits: []OverlayEdit{
			{Action: OVERLAY_ADD, EdgeID: 7, Edge: e},
			{Action: OVERLAY_MODIFY, EdgeID: 7, Edge: e},
			{Action: OVERLAY_DELETE, EdgeID: 7},
			{Action: OVERLAY_DELETE, EdgeID: 8},
			{Action: OVERLAY_ADD, EdgeID: 8, Edge: e},
		},
	}
	effective := overlay.collapse()
	require.Len(t, effective, 2)
	require.Equal(t, OVERLAY_DELETE, effective[7].Action)
	require.Equal(t, OVERLAY_ADD, effective[8].Action)
}

func TestOverlayActionString(t *testing.T) {
	require.Equal(t, "add", OVERLAY_ADD.String())
	require.Equal(t, "modify", OVERLAY_MODIFY.String())
	require.Equal(t, "delete", OVERLAY_DELETE.String())
}
