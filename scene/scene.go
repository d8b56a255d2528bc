package scene

import (
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

const fadeFrames = 30

// Scene is one screen of the game.
type Scene interface {
	Name() string
	// Enter receives the name of the scene navigated away from, so a scene
	// can tell a normal entry from an editor or quick-test entry.
	Enter(from string)
	Update() error
	Draw(screen *ebiten.Image)
	Leave()
}

// Manager owns the named scene registry and the current scene. GoTo
// satisfies the level controller's Navigator.
type Manager struct {
	scenes  map[string]Scene
	current Scene
	from    string

	fadeTimer int
	fadeImg   *ebiten.Image
}

// NewManager creates an empty scene registry.
func NewManager() *Manager {
	return &Manager{scenes: map[string]Scene{}}
}

// Register adds a scene under its own name. Last registration wins.
func (m *Manager) Register(s Scene) {
	if m == nil || s == nil || s.Name() == "" {
		return
	}
	m.scenes[s.Name()] = s
}

// GoTo leaves the current scene and enters the named one. An unknown
// destination is logged and ignored; effect "fade" starts a fade-in.
func (m *Manager) GoTo(dest, effect string) {
	if m == nil {
		return
	}
	next, ok := m.scenes[dest]
	if !ok {
		log.Printf("scene: unknown destination %q", dest)
		return
	}
	from := ""
	if m.current != nil {
		from = m.current.Name()
		m.current.Leave()
	}
	m.from = from
	m.current = next
	next.Enter(from)
	if effect == "fade" {
		m.fadeTimer = fadeFrames
	}
}

// Current returns the active scene's name, or "".
func (m *Manager) Current() string {
	if m == nil || m.current == nil {
		return ""
	}
	return m.current.Name()
}

// CameFrom returns the name of the scene the current one was entered from.
func (m *Manager) CameFrom() string {
	if m == nil {
		return ""
	}
	return m.from
}

// Update runs the active scene once and advances any transition effect.
func (m *Manager) Update() error {
	if m == nil || m.current == nil {
		return nil
	}
	if m.fadeTimer > 0 {
		m.fadeTimer--
	}
	return m.current.Update()
}

// Draw renders the active scene plus the fade effect.
func (m *Manager) Draw(screen *ebiten.Image) {
	if m == nil || m.current == nil {
		return
	}
	m.current.Draw(screen)
	if m.fadeTimer > 0 {
		if m.fadeImg == nil {
			m.fadeImg = ebiten.NewImage(1, 1)
			m.fadeImg.Fill(color.Black)
		}
		w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(w), float64(h))
		op.ColorScale.ScaleAlpha(float32(m.fadeTimer) / fadeFrames)
		screen.DrawImage(m.fadeImg, op)
	}
}
