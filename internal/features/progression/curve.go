// Package progression реализует кривую уровней и обнаружение переходов.
// curve.go — чистая детерминированная математика: баллы → уровень и обратно.
package progression

import "math"

const (
	// MaxLevel — максимальный уровень эталонной кривой.
	MaxLevel = 10

	// Параметры формулы: level = floor((points/100)^0.6)
	pointsPerStep = 100.0
	curveExponent = 0.6
)

// Curve — кривая уровней с закреплённой таблицей порогов.
//
// Прямая функция считается формулой, а пороги обратной функции выводятся
// ОДИН раз при создании и проверяются на точность round-trip:
// ceil обратной степени и floor прямой — не точные математические
// обратные на каждой целой границе, поэтому каждый выведенный порог
// проверяется через LevelFor и при промахе поднимается до минимального
// значения, которое отображается обратно в свой уровень.
type Curve struct {
	maxLevel   int
	thresholds []int // thresholds[L] — минимум баллов для уровня L
}

// NewCurve создаёт кривую с порогами для уровней 0..maxLevel.
func NewCurve(maxLevel int) *Curve {
	if maxLevel <= 0 {
		maxLevel = MaxLevel
	}
	c := &Curve{maxLevel: maxLevel}
	c.thresholds = make([]int, maxLevel+1)
	for level := 1; level <= maxLevel; level++ {
		p := int(math.Ceil(math.Pow(float64(level), 1/curveExponent) * pointsPerStep))
		// Закрепляем границу: порог обязан отображаться в свой уровень
		for c.levelForRaw(p) < level {
			p++
		}
		// Пороги строго возрастают по построению, но проверяем инвариант
		if p <= c.thresholds[level-1] {
			p = c.thresholds[level-1] + 1
		}
		c.thresholds[level] = p
	}
	return c
}

// LevelFor возвращает уровень для накопленной суммы баллов.
// Неположительные суммы дают уровень 0. Результат в [0, maxLevel].
func (c *Curve) LevelFor(totalPoints int) int {
	level := c.levelForRaw(totalPoints)
	if level > c.maxLevel {
		return c.maxLevel
	}
	return level
}

// levelForRaw — формула без верхнего клампа.
func (c *Curve) levelForRaw(totalPoints int) int {
	if totalPoints <= 0 {
		return 0
	}
	return int(math.Floor(math.Pow(float64(totalPoints)/pointsPerStep, curveExponent)))
}

// PointsFor возвращает минимальную сумму баллов для достижения уровня.
// Строго возрастает по уровню; для уровня <= 0 возвращает 0,
// для уровня выше максимального — порог максимального.
func (c *Curve) PointsFor(level int) int {
	if level <= 0 {
		return 0
	}
	if level > c.maxLevel {
		level = c.maxLevel
	}
	return c.thresholds[level]
}

// MaxLevel возвращает максимальный уровень кривой.
func (c *Curve) MaxLevel() int {
	return c.maxLevel
}
