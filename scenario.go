package catchment

// OverlayAction represents kind of a single scenario edit record
type OverlayAction uint8

const (
	OVERLAY_ADD = OverlayAction(iota + 1)
	OVERLAY_MODIFY
	OVERLAY_DELETE
)

func (iotaIdx OverlayAction) String() string {
	return [...]string{"add", "modify", "delete"}[iotaIdx-1]
}

// OverlayEdit is a single scenario edit. Add and modify records carry a full
// replacement Edge; delete records carry the edge id only.
type OverlayEdit struct {
	Action OverlayAction
	EdgeID EdgeID
	Edge   *Edge
}

// ScenarioOverlay is a request-scoped patch over the base network. Edits are
// last-write-wins by edge id and are never persisted into the network store.
type ScenarioOverlay struct {
	ID    string
	Edits []OverlayEdit
}

// collapse folds the edit list into one effective record per edge id
func (o *ScenarioOverlay) collapse() map[EdgeID]OverlayEdit {
	effective := make(map[EdgeID]OverlayEdit, len(o.Edits))
	for _, edit := range o.Edits {
		effective[edit.EdgeID] = edit
	}
	return effective
}
