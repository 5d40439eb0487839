package audio

import (
	"bufio"
	"bytes"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vE5li/korangar-sub004/internal/assetpath"
	"github.com/vE5li/korangar-sub004/internal/config"
	"github.com/vE5li/korangar-sub004/internal/logging"
)

const soundEffectBasePath = `data\wav`

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// playingAmbient tracks a currently-audible, cycling ambient source so it
// can be restarted after its cycle interval elapses (spec.md §4.J,
// "restart_cycling_ambient").
type playingAmbient struct {
	ambientKey AmbientKey
	effect     *cachedSoundEffect
	cycle      float64
	lastStart  time.Time
	ctrl       *beep.Ctrl
}

// Engine is the single coordinator for background music, sound effects,
// and spatial ambient sound (spec.md §4.J). A single mutex guards all of
// its state, matching the original's Mutex<EngineContext> design: the
// audio control plane runs at most once per frame, so contention is a
// non-issue and the simplicity is worth it.
type Engine struct {
	mu sync.Mutex

	cfg      config.AudioConfig
	archives archiveReader
	logger   *logging.Logger

	cache *effectCache
	slab  *soundEffectSlab

	lookup  map[string]SoundEffectKey
	loading map[SoundEffectKey]struct{}
	results chan loadResult

	queue *playQueue

	mainVolume         float64
	bgmVolume          float64
	effectVolume       float64
	spatialVolume      float64

	bgmMapping map[string]string
	bgm        *backgroundMusic
	queuedBGM  *string

	ambient          *ambientSlab
	spatial          *spatialIndex
	activeSpatial    map[AmbientKey]*playingAmbient
	cyclingAmbient   map[AmbientKey]*playingAmbient
	previousQuery    []uint32
	currentQuery     []uint32
	scratch          []uint32

	lastListenerUpdate time.Time
	listenerPosition   mgl32.Vec3

	// playedThisTick records the keys that queue servicing has dispatched
	// in the current Update tick; a later queued entry for the same key in
	// that tick is dropped without playing. Immediate (already decoded)
	// plays from PlaySoundEffect/PlaySpatialSoundEffect are not recorded,
	// so they are not deduplicated against queued plays.
	playedThisTick map[SoundEffectKey]struct{}
}

// New constructs an audio engine. archives resolves sound-effect and
// background-music paths to bytes; it is normally an *archive.Set.
func New(cfg config.AudioConfig, archives archiveReader, logger *logging.Logger) (*Engine, error) {
	effectCache, err := newEffectCache(cfg.CacheMaxEntries, cfg.CacheMaxBytes)
	if err != nil {
		return nil, err
	}

	if err := speaker.Init(44100, 44100/30); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:            cfg,
		archives:       archives,
		logger:         logger,
		cache:          effectCache,
		slab:           newSoundEffectSlab(),
		lookup:         make(map[string]SoundEffectKey),
		loading:        make(map[SoundEffectKey]struct{}),
		results:        make(chan loadResult, 64),
		queue:          newPlayQueue(cfg.MaxQueueTime),
		mainVolume:     1,
		bgmVolume:      1,
		effectVolume:   1,
		spatialVolume:  1,
		ambient:        newAmbientSlab(),
		spatial:        &spatialIndex{},
		activeSpatial:  make(map[AmbientKey]*playingAmbient),
		cyclingAmbient: make(map[AmbientKey]*playingAmbient),
		playedThisTick: make(map[SoundEffectKey]struct{}),
	}

	e.bgmMapping = loadBGMMapping(archives)
	return e, nil
}

func loadBGMMapping(archives archiveReader) map[string]string {
	data, ok, err := archives.Read(`data\mp3NameTable.txt`)
	if err != nil || !ok {
		return map[string]string{}
	}
	mapping, err := assetpath.ParseBGMMapping(bufio.NewReader(bytes.NewReader(data)))
	if err != nil {
		return map[string]string{}
	}
	return mapping
}

// TrackForMap returns the background-music track name mapped to a map's
// resource file name, if any.
func (e *Engine) TrackForMap(mapFilePath string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	name := path.Base(strings.ReplaceAll(mapFilePath, `\`, "/"))
	track, ok := e.bgmMapping[name]
	return track, ok
}

// Load registers a sound-effect path and kicks off its async decode,
// returning a key that is stable for the path's lifetime. Calling Load
// again with the same path returns the existing key without re-queuing a
// load.
func (e *Engine) Load(path string) SoundEffectKey {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadLocked(path)
}

func (e *Engine) loadLocked(path string) SoundEffectKey {
	if key, ok := e.lookup[path]; ok {
		return key
	}

	key := e.slab.insert(path)
	e.lookup[path] = key
	e.startLoad(path, key)
	return key
}

func (e *Engine) startLoad(path string, key SoundEffectKey) {
	if _, ok := e.loading[key]; ok {
		return
	}
	e.loading[key] = struct{}{}
	fullPath := soundEffectBasePath + `\` + path
	spawnLoad(e.archives, fullPath, key, e.results)
}

// SetMainVolume sets the global output volume (0..1 linear).
func (e *Engine) SetMainVolume(volume float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mainVolume = volume
}

// SetBackgroundMusicVolume sets the background-music bus volume.
func (e *Engine) SetBackgroundMusicVolume(volume float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bgmVolume = volume
}

// SetSoundEffectVolume sets the non-spatial sound-effect bus volume.
func (e *Engine) SetSoundEffectVolume(volume float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.effectVolume = volume
}

// SetSpatialSoundEffectVolume sets the spatial/ambient bus volume.
func (e *Engine) SetSpatialSoundEffectVolume(volume float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spatialVolume = volume
}

// Mute silences or restores the main bus.
func (e *Engine) Mute(enable bool) {
	if enable {
		e.SetMainVolume(0)
	} else {
		e.SetMainVolume(1)
	}
}

// PlaySoundEffect plays a registered, non-spatial sound effect. If its data
// is not yet decoded, the request is queued and resolved in Update once
// loading completes or MaxQueueTime elapses.
func (e *Engine) PlaySoundEffect(key SoundEffectKey) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if effect, ok := e.cache.Get(key); ok {
		e.playImmediate(effect, e.mainVolume*e.effectVolume)
		return
	}

	e.queue.push(queuedSoundEffect{key: key, kind: queuedPlain, queuedAt: time.Now()})
}

// PlaySpatialSoundEffect plays a one-shot sound effect at a world position,
// attenuated by distance from the last listener position set via
// SetSpatialListener.
func (e *Engine) PlaySpatialSoundEffect(key SoundEffectKey, position mgl32.Vec3, radius float32) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Korangar's engine uses a right-handed coordinate system internally;
	// the world is left-handed, so Z is negated at the boundary.
	position = mgl32.Vec3{position[0], position[1], -position[2]}

	if effect, ok := e.cache.Get(key); ok {
		gain := e.spatialGain(position, float64(radius))
		e.playImmediate(effect, e.mainVolume*e.spatialVolume*gain)
		return
	}

	e.queue.push(queuedSoundEffect{
		key: key, kind: queuedSpatial, queuedAt: time.Now(),
		position: [3]float32{position[0], position[1], position[2]}, radius: radius,
	})
}

func (e *Engine) spatialGain(position mgl32.Vec3, maxDistance float64) float64 {
	distance := float64(position.Sub(e.listenerPosition).Len())
	return attenuationLinear(distance, e.cfg.SpatialMinDistance, maxDistance)
}

func (e *Engine) playImmediate(effect *cachedSoundEffect, gain float64) {
	streamer := &sliceStreamer{samples: effect.samples}
	speaker.Play(&gainStreamer{streamer: streamer, gain: gain})
}

// PlayBackgroundMusicTrack fades out any currently playing track and starts
// trackName, or stops music entirely if trackName is "".
func (e *Engine) PlayBackgroundMusicTrack(trackName string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if trackName == "" {
		if e.bgm != nil {
			e.bgm.state = bgmStopping
			e.bgm.stopAt = time.Now().Add(e.cfg.BGMFadeOut)
		}
		e.queuedBGM = nil
		return
	}

	if e.bgm != nil && (e.bgm.state == bgmPlaying || e.bgm.state == bgmStopping) {
		if e.bgm.trackName == trackName {
			return
		}
		if e.bgm.state == bgmPlaying {
			e.bgm.state = bgmStopping
			e.bgm.stopAt = time.Now().Add(e.cfg.BGMFadeOut)
		}
		name := trackName
		e.queuedBGM = &name
		return
	}

	e.changeBackgroundMusicTrack(trackName)
}

func (e *Engine) changeBackgroundMusicTrack(trackName string) {
	trackPath, ok := assetpath.FindCaseInsensitive(e.archives.(assetpath.DirLister), trackName, bgmExtensions(e.cfg.PreferFlac))
	if !ok {
		e.logger.Warn("audio", "can't find background music track", map[string]interface{}{"track": trackName})
		return
	}

	data, ok, err := e.archives.Read(trackPath)
	if err != nil || !ok {
		e.logger.Warn("audio", "can't read background music track", map[string]interface{}{"track": trackName, "error": errString(err)})
		return
	}

	streamer, format, err := streamSoundEffect(trackPath, data)
	if err != nil {
		e.logger.Warn("audio", "can't decode background music track", map[string]interface{}{"track": trackName, "error": errString(err)})
		return
	}

	shaved := newLoopShaved(streamer, format, e.cfg.BGMLoopShave)
	speaker.Play(&gainStreamer{streamer: shaved, gain: e.mainVolume * e.bgmVolume})

	e.bgm = &backgroundMusic{trackName: trackName, streamer: streamer, state: bgmPlaying}
}

func bgmExtensions(preferFlac bool) []string {
	if preferFlac {
		return []string{".flac", ".mp3", ".wav"}
	}
	return []string{".mp3", ".wav"}
}

// AddAmbientSound places a static, spatial ambient sound source. The world
// must be rebuilt with PrepareAmbientSoundWorld after all sources for a
// map have been added.
func (e *Engine) AddAmbientSound(key SoundEffectKey, position mgl32.Vec3, radius float32, volume float64, cycle time.Duration) AmbientKey {
	e.mu.Lock()
	defer e.mu.Unlock()

	cycleSeconds := 0.0
	if cycle > 0 {
		cycleSeconds = cycle.Seconds()
	}

	return e.ambient.insert(ambientConfig{
		soundEffectKey: key,
		position:       mgl32.Vec3{position[0], position[1], -position[2]},
		radius:         radius,
		volumeDB:       linearToDecibel(volume),
		cycle:          cycleSeconds,
	})
}

// ClearAmbientSound removes every placed ambient source, e.g. on map change.
func (e *Engine) ClearAmbientSound() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ambient.clear()
	e.spatial = &spatialIndex{}
	e.activeSpatial = make(map[AmbientKey]*playingAmbient)
	e.cyclingAmbient = make(map[AmbientKey]*playingAmbient)
	e.previousQuery = e.previousQuery[:0]
	e.currentQuery = e.currentQuery[:0]
}

// PrepareAmbientSoundWorld rebuilds the spatial index from the currently
// placed ambient sounds. Call once after the last AddAmbientSound for a map.
func (e *Engine) PrepareAmbientSoundWorld() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spatial = newSpatialIndex(e.ambient)
}

// SetSpatialListener queries which ambient sounds are newly in or out of
// range of position, and throttles the update of the listener position used
// for attenuation to ListenerThrottle so the attenuation curve doesn't
// recompute on every single call. viewDirection and lookUp are not used:
// attenuation depends on distance only.
func (e *Engine) SetSpatialListener(position mgl32.Vec3, viewDirection, lookUp mgl32.Vec3) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Same left-handed to right-handed conversion as PlaySpatialSoundEffect.
	position = mgl32.Vec3{position[0], position[1], -position[2]}

	e.currentQuery = e.spatial.query(position, float32(e.cfg.AmbientListenerRadius), e.currentQuery)

	// Sounds that came into reach.
	e.scratch = assetpath.SortedDifference(e.currentQuery, e.previousQuery, e.scratch)
	for _, idx := range e.scratch {
		e.startAmbient(AmbientKey{Index: idx})
	}

	// Sounds that went out of reach.
	e.scratch = assetpath.SortedDifference(e.previousQuery, e.currentQuery, e.scratch)
	for _, idx := range e.scratch {
		key := AmbientKey{Index: idx}
		delete(e.activeSpatial, key)
		delete(e.cyclingAmbient, key)
	}

	e.previousQuery, e.currentQuery = e.currentQuery, e.previousQuery

	now := time.Now()
	if now.Sub(e.lastListenerUpdate) > e.cfg.ListenerThrottle {
		e.lastListenerUpdate = now
		e.listenerPosition = position
	}
}

func (e *Engine) startAmbient(key AmbientKey) {
	cfg, ok := e.ambient.entries[key]
	if !ok {
		return
	}

	effect, ok := e.cache.Get(cfg.soundEffectKey)
	if !ok {
		e.queue.push(queuedSoundEffect{key: cfg.soundEffectKey, kind: queuedAmbient, ambientKey: key, queuedAt: time.Now()})
		e.activeSpatial[key] = &playingAmbient{ambientKey: key, cycle: cfg.cycle}
		return
	}

	gain := decibelToLinear(cfg.volumeDB) * e.spatialGain(cfg.position, float64(cfg.radius)) * e.mainVolume * e.spatialVolume
	e.playImmediate(effect, gain)

	if cfg.cycle > 0 {
		e.cyclingAmbient[key] = &playingAmbient{ambientKey: key, effect: effect, cycle: cfg.cycle, lastStart: time.Now()}
	}
	e.activeSpatial[key] = &playingAmbient{ambientKey: key, effect: effect, cycle: cfg.cycle}
}

// Update drains completed async loads, resolves queued playback requests,
// and restarts cycling ambient sounds whose interval has elapsed. Call once
// per frame/tick.
func (e *Engine) Update() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for k := range e.playedThisTick {
		delete(e.playedThisTick, k)
	}

	e.resolveAsyncLoads()
	e.resolveQueuedAudio()
	e.restartCyclingAmbient()
}

func (e *Engine) resolveAsyncLoads() {
	for {
		select {
		case result := <-e.results:
			delete(e.loading, result.key)
			if result.err != nil {
				e.logger.Warn("audio", "could not load audio file", map[string]interface{}{"path": result.path, "error": errString(result.err)})
				continue
			}
			if err := e.cache.Insert(result.key, result.effect); err != nil {
				e.logger.Warn("audio", "audio file could not be added to cache", map[string]interface{}{"path": result.path, "error": errString(err)})
			}
		default:
			return
		}
	}
}

func (e *Engine) resolveQueuedAudio() {
	if e.queuedBGM != nil && e.bgm != nil && e.bgm.state == bgmStopped {
		name := *e.queuedBGM
		e.queuedBGM = nil
		e.changeBackgroundMusicTrack(name)
	}

	now := time.Now()
	e.queue.drain(now, e.cache.Get, func(q queuedSoundEffect, effect *cachedSoundEffect) {
		if _, played := e.playedThisTick[q.key]; played {
			return
		}
		e.playedThisTick[q.key] = struct{}{}

		switch q.kind {
		case queuedPlain:
			e.playImmediate(effect, e.mainVolume*e.effectVolume)
		case queuedSpatial:
			pos := mgl32.Vec3{q.position[0], q.position[1], q.position[2]}
			gain := e.spatialGain(pos, float64(q.radius)) * e.mainVolume * e.spatialVolume
			e.playImmediate(effect, gain)
		case queuedAmbient:
			if cfg, ok := e.ambient.entries[q.ambientKey]; ok {
				gain := decibelToLinear(cfg.volumeDB) * e.spatialGain(cfg.position, float64(cfg.radius)) * e.mainVolume * e.spatialVolume
				e.playImmediate(effect, gain)
				if cfg.cycle > 0 {
					e.cyclingAmbient[q.ambientKey] = &playingAmbient{ambientKey: q.ambientKey, effect: effect, cycle: cfg.cycle, lastStart: now}
				}
			}
		}
	})
}

func (e *Engine) restartCyclingAmbient() {
	now := time.Now()
	for key, playing := range e.cyclingAmbient {
		if now.Sub(playing.lastStart).Seconds() < playing.cycle {
			continue
		}
		if _, active := e.activeSpatial[key]; !active {
			continue
		}
		cfg, ok := e.ambient.entries[key]
		if !ok {
			continue
		}
		playing.lastStart = now
		gain := decibelToLinear(cfg.volumeDB) * e.spatialGain(cfg.position, float64(cfg.radius)) * e.mainVolume * e.spatialVolume
		e.playImmediate(playing.effect, gain)
	}
}
