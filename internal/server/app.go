package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"InnKeeper/internal/inn"
	"InnKeeper/internal/mission"
	"InnKeeper/internal/save"
)

var (
	errBadRequest    = errors.New("bad request")
	errSavesDisabled = errors.New("saves are disabled")
)

// App owns the inn, the mission engine and the save store. Every access
// to the inn or the engine holds mu; the tick loop and request handlers
// share one timeline.
type App struct {
	mu     sync.Mutex
	cfg    Config
	inn    *inn.Inn
	engine *mission.Engine
	store  *save.Store // nil when saves are disabled
	hub    *Hub
	saveID string
}

// NewApp wires the app from cfg and restores the configured save slot if
// it exists.
func NewApp(cfg Config) (*App, error) {
	cfg = sanitize(cfg)

	catalog, err := mission.LoadCatalogFile(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	a := &App{
		cfg: cfg,
		inn: inn.New(cfg.Inn),
		hub: NewHub(),
	}
	opts := mission.Options{
		Roster:    a.inn,
		Standing:  a.inn,
		Ledger:    a.inn,
		Inventory: a.inn,
		Trainer:   a.inn,
		Notifier:  a.hub,
	}
	if cfg.Seed != 0 {
		opts.Rand = rand.New(rand.NewSource(cfg.Seed))
	}
	a.engine, err = mission.NewEngine(catalog, opts)
	if err != nil {
		return nil, err
	}

	if cfg.SaveDir != "" {
		a.store, err = save.NewStore(cfg.SaveDir, cfg.SaveFormat)
		if err != nil {
			return nil, err
		}
		err = a.loadLocked(cfg.SaveSlot)
		switch {
		case err == nil:
			log.Printf("restored save %q (tick %d, %d active missions)", cfg.SaveSlot, a.engine.Tick(), len(a.engine.ActiveMissions()))
		case errors.Is(err, save.ErrNotFound):
			log.Printf("no save %q in %s, starting a new inn", cfg.SaveSlot, cfg.SaveDir)
		default:
			return nil, err
		}
	}
	return a, nil
}

// StartApp runs the server until interrupted.
func StartApp(cfg Config) {
	app, err := NewApp(cfg)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("starting inn server on %s (tick %s, %d missions in catalog)",
		app.cfg.Addr, app.cfg.TickInterval, app.engine.Catalog().Len())
	if err := app.Run(ctx); err != nil {
		log.Fatal(err)
	}
}

// Run serves HTTP, drives ticks and autosaves until ctx is done, then
// saves once more.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           a.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.every(ctx, a.cfg.TickInterval, func() { a.Tick() })
	}()
	if a.store != nil && a.cfg.AutosaveInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.every(ctx, a.cfg.AutosaveInterval, func() {
				if err := a.SaveSlot(a.cfg.SaveSlot); err != nil {
					log.Printf("autosave: %v", err)
				}
			})
		}()
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	var err error
	select {
	case err = <-errc:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = srv.Shutdown(shutdownCtx)
		cancel()
	}
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	cancel()
	a.hub.Close()
	wg.Wait()

	if a.store != nil {
		if saveErr := a.SaveSlot(a.cfg.SaveSlot); saveErr != nil {
			log.Printf("final save: %v", saveErr)
		} else {
			log.Printf("saved %q", a.cfg.SaveSlot)
		}
	}
	return err
}

func (a *App) every(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

// Tick advances the engine one simulated hour and pushes the result.
func (a *App) Tick() []mission.Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	outcomes := a.engine.Advance()
	a.hub.Broadcast("tick", tickDTO{
		Tick:     a.engine.Tick(),
		Active:   a.activeDTOsLocked(),
		Outcomes: outcomes,
	})
	if len(outcomes) > 0 {
		a.hub.Broadcast("inn", a.innDTOLocked())
	}
	return outcomes
}

func (a *App) broadcastMissionsLocked() {
	a.hub.Broadcast("missions", a.activeDTOsLocked())
}

// State returns the full view used by new clients.
func (a *App) State() stateDTO {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stateDTOLocked()
}

// Dispatch parses the participant refs and sends them on a mission.
func (a *App) Dispatch(req dispatchRequest) (missionDTO, error) {
	refs := make([]mission.ParticipantRef, 0, len(req.Participants))
	for _, raw := range req.Participants {
		ref, err := mission.ParseParticipantRef(raw)
		if err != nil {
			return missionDTO{}, fmt.Errorf("%w: %v", mission.ErrValidation, err)
		}
		refs = append(refs, ref)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	in, err := a.engine.Dispatch(req.DefinitionID, refs)
	if err != nil {
		return missionDTO{}, err
	}
	a.broadcastMissionsLocked()
	return a.missionDTOLocked(in), nil
}

// Cancel aborts an active mission.
func (a *App) Cancel(id int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.engine.CancelMission(id); err != nil {
		return err
	}
	a.broadcastMissionsLocked()
	return nil
}

// Recall turns an outbound mission around.
func (a *App) Recall(id int) (missionDTO, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.engine.RecallMission(id); err != nil {
		return missionDTO{}, err
	}
	in, _ := a.engine.Mission(id)
	a.broadcastMissionsLocked()
	return a.missionDTOLocked(in), nil
}

// Mission returns one active mission.
func (a *App) Mission(id int) (missionDTO, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	in, ok := a.engine.Mission(id)
	if !ok {
		return missionDTO{}, fmt.Errorf("%w: %d", mission.ErrMissionNotFound, id)
	}
	return a.missionDTOLocked(in), nil
}

// Active returns the active missions in dispatch order.
func (a *App) Active() []missionDTO {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activeDTOsLocked()
}

// Available returns the definitions that can be dispatched now.
func (a *App) Available() []definitionDTO {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.availableDTOsLocked()
}

// Catalog returns every definition with its availability.
func (a *App) Catalog() []definitionDTO {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.catalogDTOsLocked()
}

// History returns up to limit records, most recent first.
func (a *App) History(limit int) []historyDTO {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.historyDTOsLocked(limit)
}

// Stats summarizes the retained history.
func (a *App) Stats() mission.Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.Stats()
}

// Inn returns the purse, storeroom and staff.
func (a *App) Inn() innDTO {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.innDTOLocked()
}

// Hire takes an unlocked employee onto the payroll.
func (a *App) Hire(id int) (innDTO, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.inn.Hire(id); err != nil {
		return innDTO{}, err
	}
	return a.innDTOLocked(), nil
}

// Dismiss lets an employee go unless they are away on a mission.
func (a *App) Dismiss(id int) (innDTO, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.inn.Dismiss(id, a.engine.IsBusy); err != nil {
		return innDTO{}, err
	}
	return a.innDTOLocked(), nil
}

// Upgrade buys the next inn level.
func (a *App) Upgrade() (innDTO, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	level, err := a.inn.Upgrade()
	if err != nil {
		return innDTO{}, err
	}
	a.hub.Notify(mission.NotifyInfo, "Inn upgraded", fmt.Sprintf("The inn is now level %d.", level))
	return a.innDTOLocked(), nil
}

// SaveSlot writes the inn and the engine to slot.
func (a *App) SaveSlot(slot string) error {
	if a.store == nil {
		return errSavesDisabled
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saveLocked(slot)
}

// LoadSlot replaces the running game with slot.
func (a *App) LoadSlot(slot string) (stateDTO, error) {
	if a.store == nil {
		return stateDTO{}, errSavesDisabled
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.loadLocked(slot); err != nil {
		return stateDTO{}, err
	}
	state := a.stateDTOLocked()
	a.hub.Broadcast("state", state)
	return state, nil
}

// DeleteSlot removes slot from disk.
func (a *App) DeleteSlot(slot string) error {
	if a.store == nil {
		return errSavesDisabled
	}
	return a.store.Delete(slot)
}

// Slots lists the save slots on disk.
func (a *App) Slots() ([]save.SlotInfo, error) {
	if a.store == nil {
		return nil, errSavesDisabled
	}
	return a.store.List()
}

func (a *App) saveLocked(slot string) error {
	f := &save.File{
		ID:       a.saveID,
		Inn:      a.inn.State(),
		Missions: a.engine.Serialize(),
	}
	if err := a.store.Save(slot, f); err != nil {
		return err
	}
	a.saveID = f.ID
	return nil
}

func (a *App) loadLocked(slot string) error {
	f, err := a.store.Load(slot)
	if err != nil {
		return err
	}
	a.inn.Restore(f.Inn)
	if dropped := a.engine.Deserialize(f.Missions); dropped > 0 {
		log.Printf("save %q: dropped %d unrecoverable missions", slot, dropped)
	}
	a.saveID = f.ID
	return nil
}
