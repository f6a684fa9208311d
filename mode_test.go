package catchment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for name, expected := range map[string]Mode{
		"pedestrian": MODE_PEDESTRIAN,
		"walking":    MODE_PEDESTRIAN,
		"Bicycle":    MODE_BICYCLE,
		"pedelec":    MODE_PEDELEC,
		"CAR":        MODE_CAR,
	} {
		mode, err := ParseMode(name)
		require.NoError(t, err)
		require.Equal(t, expected, mode)
	}
	_, err := ParseMode("teleport")
	require.Error(t, err)
}

func TestClassEligibility(t *testing.T) {
	require.True(t, MODE_PEDESTRIAN.ClassEligible(CLASS_FOOTWAY))
	require.True(t, MODE_PEDESTRIAN.ClassEligible(CLASS_STEPS))
	require.False(t, MODE_PEDESTRIAN.ClassEligible(CLASS_MOTORWAY))
	require.False(t, MODE_PEDESTRIAN.ClassEligible(CLASS_CYCLEWAY))

	require.True(t, MODE_BICYCLE.ClassEligible(CLASS_CYCLEWAY))
	require.False(t, MODE_BICYCLE.ClassEligible(CLASS_FOOTWAY))
	require.False(t, MODE_BICYCLE.ClassEligible(CLASS_STEPS))

	require.True(t, MODE_CAR.ClassEligible(CLASS_MOTORWAY))
	require.False(t, MODE_CAR.ClassEligible(CLASS_FOOTWAY))
	require.False(t, MODE_CAR.ClassEligible(CLASS_PATH))
}

func TestDismountRequired(t *testing.T) {
	require.True(t, DismountRequired(CLASS_PEDESTRIAN))
	require.True(t, DismountRequired(CLASS_CROSSWALK))
	require.False(t, DismountRequired(CLASS_CYCLEWAY))
	require.False(t, DismountRequired(CLASS_RESIDENTIAL))
}

func TestConnectorClass(t *testing.T) {
	require.Equal(t, CLASS_SERVICE, MODE_CAR.ConnectorClass())
	require.Equal(t, CLASS_PATH, MODE_PEDESTRIAN.ConnectorClass())
	require.Equal(t, CLASS_PATH, MODE_BICYCLE.ConnectorClass())
}

func TestModeStrings(t *testing.T) {
	require.Equal(t, "pedestrian", MODE_PEDESTRIAN.String())
	require.Equal(t, "car", MODE_CAR.String())
	require.True(t, MODE_PEDESTRIAN.Active())
	require.False(t, MODE_CAR.Active())
}
