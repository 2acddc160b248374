package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() (*Engine, *Curve) {
	curve := NewCurve(MaxLevel)
	return NewEngine(curve, DefaultLevels(curve)), curve
}

func TestEngine_NoEventWithoutLevelChange(t *testing.T) {
	engine, _ := newTestEngine()

	assert.Nil(t, engine.Evaluate("u1", 0, 50), "рост внутри уровня — не событие")
	assert.Nil(t, engine.Evaluate("u1", 150, 150), "без изменения суммы события нет")
	assert.Nil(t, engine.Evaluate("u1", 150, 120), "снижение суммы события не порождает")
}

func TestEngine_ThresholdCrossing(t *testing.T) {
	engine, _ := newTestEngine()

	event := engine.Evaluate("u1", 95, 105)
	require.NotNil(t, event)
	assert.Equal(t, "u1", event.UserID)
	assert.Equal(t, 0, event.OldLevel)
	assert.Equal(t, 1, event.NewLevel)
	assert.Equal(t, 10, event.PointsEarned)
	assert.Equal(t, 105, event.TotalPoints)
	assert.Equal(t, []string{"profile.basic"}, event.UnlockedFeatures)
}

func TestEngine_MultiLevelJump(t *testing.T) {
	engine, curve := newTestEngine()

	oldTotal := curve.PointsFor(1) + 10
	newTotal := curve.PointsFor(4)
	event := engine.Evaluate("u1", oldTotal, newTotal)
	require.NotNil(t, event)
	assert.Equal(t, 1, event.OldLevel)
	assert.Equal(t, 4, event.NewLevel, "крупное начисление даёт одно событие с финальным уровнем")
	assert.Equal(t, []string{"comments.unmoderated", "groups.create", "profile.cover"},
		event.UnlockedFeatures, "анлоки пройденных уровней объединяются по возрастанию")
}

func TestEngine_UnlocksDeduplicated(t *testing.T) {
	curve := NewCurve(MaxLevel)
	levels := []Level{
		{ID: 1, PointsRequired: curve.PointsFor(1), Unlocks: []string{"chat", "avatar"}},
		{ID: 2, PointsRequired: curve.PointsFor(2), Unlocks: []string{"avatar", "groups"}},
	}
	engine := NewEngine(curve, levels)

	event := engine.Evaluate("u1", 0, curve.PointsFor(2))
	require.NotNil(t, event)
	assert.Equal(t, []string{"chat", "avatar", "groups"}, event.UnlockedFeatures,
		"дубликат сохраняет первое вхождение")
}
