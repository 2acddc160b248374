// Package progression — engine.go обнаруживает переходы уровней.
// Движок чистый: никаких побочных эффектов, только вычисление по двум суммам
// и статической таблице уровней. Сохранение и рассылка события — забота
// вызывающего.
package progression

// Engine сравнивает старую и новую сумму баллов и строит событие перехода.
type Engine struct {
	curve  *Curve
	levels map[int]Level
}

// NewEngine создаёт движок прогрессии с заданной кривой и таблицей уровней.
func NewEngine(curve *Curve, levels []Level) *Engine {
	byID := make(map[int]Level, len(levels))
	for _, l := range levels {
		byID[l.ID] = l
	}
	return &Engine{curve: curve, levels: byID}
}

// Evaluate возвращает событие перехода уровня или nil, если перехода нет.
//
// Одно крупное начисление может перепрыгнуть несколько границ сразу —
// в этом случае возвращается ОДНО событие с финальным уровнем и
// объединением анлоков всех пройденных уровней (OldLevel, NewLevel],
// по возрастанию уровня, без дубликатов с сохранением первого вхождения.
func (e *Engine) Evaluate(userID string, oldTotal, newTotal int) *LevelUpEvent {
	oldLevel := e.curve.LevelFor(oldTotal)
	newLevel := e.curve.LevelFor(newTotal)
	if newLevel <= oldLevel {
		return nil
	}

	var unlocked []string
	seen := make(map[string]bool)
	for id := oldLevel + 1; id <= newLevel; id++ {
		level, ok := e.levels[id]
		if !ok {
			continue
		}
		for _, flag := range level.Unlocks {
			if seen[flag] {
				continue
			}
			seen[flag] = true
			unlocked = append(unlocked, flag)
		}
	}

	return &LevelUpEvent{
		UserID:           userID,
		OldLevel:         oldLevel,
		NewLevel:         newLevel,
		PointsEarned:     newTotal - oldTotal,
		TotalPoints:      newTotal,
		UnlockedFeatures: unlocked,
	}
}

// LevelInfo возвращает описание уровня из таблицы.
func (e *Engine) LevelInfo(id int) (Level, bool) {
	level, ok := e.levels[id]
	return level, ok
}
