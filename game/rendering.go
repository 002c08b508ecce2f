package game

import (
	"log/slog"

	"github.com/pthm-cable/hive/systems"
)

// detailAdapter forwards governor level changes to the renderer as a detail
// level. Geometry itself is never touched here.
type detailAdapter struct {
	renderer systems.Renderer
	level    int
	cosmetic bool
	synced   bool
}

// ApplyDegradation implements systems.Degradable.
func (d *detailAdapter) ApplyDegradation(level int, actions systems.LevelActions) {
	if d.synced && d.level == level && d.cosmetic == actions.Cosmetic {
		return
	}
	d.synced = true
	d.level = level
	d.cosmetic = actions.Cosmetic
	d.renderer.SetDetail(level, actions.Cosmetic)
	slog.Debug("render_detail", "level", level, "cosmetic", actions.Cosmetic)
}
