// Package model implements the two supplemented model/action components of
// SPEC_FULL.md: the sprite Actions/SpriteAnimationState cache and the
// glTF-backed geometry Model variant.
package model

import "github.com/vE5li/korangar-sub004/internal/texture"

// SpriteClip is one sprite reference inside a Motion frame, grounded on
// original_source/korangar/src/world/action/mod.rs's SpriteClip.
type SpriteClip struct {
	SpriteNumber int
	Position     [2]float32
	// Size is nil when the clip takes its dimensions from the referenced
	// texture's own size.
	Size *[2]float32
	// Zoom is nil when the clip uses the default zoom of 1.0.
	Zoom *float32
	// Zoom2 is nil when the clip uses the default per-axis zoom of {1, 1}.
	Zoom2 *[2]float32
}

// Motion is one animation frame: the set of sprite clips drawn together.
type Motion struct {
	SpriteClips []SpriteClip
}

// Action is one direction-indexed animation (walk, attack, sit, ...), a
// sequence of Motions.
type Action struct {
	Motions []Motion
}

// ActionEventKind distinguishes the kinds of side effect a motion frame can
// trigger, per ActionEvent in the original.
type ActionEventKind int

const (
	ActionEventSound ActionEventKind = iota
	ActionEventAttack
	ActionEventUnknown
)

// ActionEvent is a per-frame side effect: a sound cue, an attack-landed
// marker (the "flinch" animation), or an unrecognized event kind.
type ActionEvent struct {
	Kind     ActionEventKind
	SoundKey string // meaningful only when Kind == ActionEventSound
}

// Actions is a sprite sheet's complete animation set: one entry per
// (action_base_offset, direction) pair, frame delays, and per-frame events.
// Cached by asset path with cache cost always zero — counted by entry only,
// never by byte budget, because Cacheable::size() returns 0 for this type
// in the original.
type Actions struct {
	Actions []Action
	Delays  []float32
	Events  []ActionEvent
}

// CostBytes always returns zero, satisfying cache.Costed while keeping
// Actions entries outside the BoundedCache's byte budget.
func (a *Actions) CostBytes() int { return 0 }

// SpriteAnimationState tracks one live animation instance's clock.
type SpriteAnimationState struct {
	ActionBaseOffset int
	StartTime        uint32
	Time             uint32
}

// NewSpriteAnimationState starts a fresh animation clock at startTime.
func NewSpriteAnimationState(startTime uint32) *SpriteAnimationState {
	return &SpriteAnimationState{StartTime: startTime}
}

// GetActionIndex resolves a direction (0-7) against the animation's base
// offset into a flat index into Actions.Actions.
func (s *SpriteAnimationState) GetActionIndex(direction int) int {
	return s.ActionBaseOffset*8 + direction
}

// Update advances the clock to clientTick. Subtraction wraps the same way
// the original's wrapping_sub on a u32 tick counter does.
func (s *SpriteAnimationState) Update(clientTick uint32) {
	s.Time = clientTick - s.StartTime
}

// SpriteTextureProvider resolves a sprite-sheet texture index to its
// uploaded handle, mirroring the original's Sprite.textures lookup.
type SpriteTextureProvider interface {
	TextureAt(index int) (*texture.Handle, bool)
}

// SpriteFrame is one resolved sprite clip: its texture handle and the
// screen-space rectangle it should be drawn into. Rendering is out of
// scope, so this is a descriptor handed to a caller-supplied renderer
// rather than a draw call, the same trade the original makes explicit via
// its generic SpriteRenderer trait.
type SpriteFrame struct {
	Texture  *texture.Handle
	Position [2]float32
	Size     [2]float32
}

// ResolveFrame computes the current frame's sprite clips for direction and
// animation state against sprite, positioned at position and scaled by
// scaling. It mirrors Actions::render_sprite / render_sprite_frame's
// arithmetic exactly, substituting a returned descriptor slice for the
// original's direct renderer calls. ok is false if any clip references a
// texture index the provider does not have (matching the original's early
// return).
func (a *Actions) ResolveFrame(direction int, state *SpriteAnimationState, sprite SpriteTextureProvider, position [2]float32, scaling float32) ([]SpriteFrame, bool) {
	direction = direction % 8
	actionIndex := state.GetActionIndex(direction)
	delay := a.Delays[actionIndex%len(a.Delays)]
	factor := delay * 50.0

	// f64 division keeps the microsecond-resolution tick value exact,
	// matching the original's explicit comment on this cast.
	frameIndex := int(float64(state.Time) / float64(factor))

	return a.resolveFrameAt(actionIndex, frameIndex, sprite, position, scaling)
}

func (a *Actions) resolveFrameAt(actionIndex, frameIndex int, sprite SpriteTextureProvider, position [2]float32, scaling float32) ([]SpriteFrame, bool) {
	action := a.Actions[actionIndex%len(a.Actions)]
	motion := action.Motions[frameIndex%len(action.Motions)]

	frames := make([]SpriteFrame, 0, len(motion.SpriteClips))
	for _, clip := range motion.SpriteClips {
		tex, ok := sprite.TextureAt(clip.SpriteNumber)
		if !ok {
			return nil, false
		}

		dimensions := [2]float32{float32(tex.Width), float32(tex.Height)}
		if clip.Size != nil {
			dimensions = *clip.Size
		}

		zoom := float32(1.0)
		if clip.Zoom != nil {
			zoom = *clip.Zoom
		}
		zoom *= scaling

		zoom2 := [2]float32{1, 1}
		if clip.Zoom2 != nil {
			zoom2 = *clip.Zoom2
		}

		finalSize := [2]float32{dimensions[0] * zoom2[0] * zoom, dimensions[1] * zoom2[1] * zoom}
		finalPosition := [2]float32{
			position[0] + clip.Position[0] - finalSize[0]/2,
			position[1] + clip.Position[1] - finalSize[1]/2,
		}

		frames = append(frames, SpriteFrame{Texture: tex, Position: finalPosition, Size: finalSize})
	}
	return frames, true
}
