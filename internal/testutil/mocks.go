package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ptd/internal/models"
	"ptd/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// HasLevel reports whether any entry was recorded at the given level.
func (m *MockLogger) HasLevel(level string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Logs {
		if e.Level == level {
			return true
		}
	}
	return false
}

// MockBackend implements interfaces.BackendInterface with injectable
// behavior and call recording.
type MockBackend struct {
	mu sync.Mutex

	FetchFn     func(ctx context.Context, branchID string) ([]models.TimerRecord, error)
	PollFn      func(ctx context.Context, branchID string) ([]models.TimerRecord, error)
	AlertsFn    func(ctx context.Context, branchID string) ([]models.AlertTrigger, error)
	ExtendFn    func(ctx context.Context, saleID, timerID string, minutes int) (*models.TimerRecord, error)
	AckFn       func(ctx context.Context, timerID string, thresholdMinutes int) error
	ExtendCalls []ExtendCall
	AckCalls    []AckCall
}

type ExtendCall struct {
	SaleID  string
	TimerID string
	Minutes int
}

type AckCall struct {
	TimerID          string
	ThresholdMinutes int
}

func (m *MockBackend) FetchActiveTimers(ctx context.Context, branchID string) ([]models.TimerRecord, error) {
	if m.FetchFn != nil {
		return m.FetchFn(ctx, branchID)
	}
	return nil, nil
}

func (m *MockBackend) PollTimerUpdates(ctx context.Context, branchID string) ([]models.TimerRecord, error) {
	if m.PollFn != nil {
		return m.PollFn(ctx, branchID)
	}
	return nil, nil
}

func (m *MockBackend) PollAlertTriggers(ctx context.Context, branchID string) ([]models.AlertTrigger, error) {
	if m.AlertsFn != nil {
		return m.AlertsFn(ctx, branchID)
	}
	return nil, nil
}

func (m *MockBackend) SubmitExtension(ctx context.Context, saleID, timerID string, minutes int) (*models.TimerRecord, error) {
	m.mu.Lock()
	m.ExtendCalls = append(m.ExtendCalls, ExtendCall{SaleID: saleID, TimerID: timerID, Minutes: minutes})
	m.mu.Unlock()
	if m.ExtendFn != nil {
		return m.ExtendFn(ctx, saleID, timerID, minutes)
	}
	return nil, nil
}

func (m *MockBackend) AcknowledgeAlert(ctx context.Context, timerID string, thresholdMinutes int) error {
	m.mu.Lock()
	m.AckCalls = append(m.AckCalls, AckCall{TimerID: timerID, ThresholdMinutes: thresholdMinutes})
	m.mu.Unlock()
	if m.AckFn != nil {
		return m.AckFn(ctx, timerID, thresholdMinutes)
	}
	return nil
}

func (m *MockBackend) AckCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.AckCalls)
}

// MockNotifier implements interfaces.NotifierInterface with recorded calls.
type MockNotifier struct {
	mu sync.Mutex

	NotifyFn  func(payload models.NotificationPayload) (string, error)
	Notified  []models.NotificationPayload
	Dismissed []string

	nextID int
}

func (m *MockNotifier) NotifyUser(payload models.NotificationPayload) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notified = append(m.Notified, payload)
	if m.NotifyFn != nil {
		return m.NotifyFn(payload)
	}
	m.nextID++
	return fmt.Sprintf("notif-%d", m.nextID), nil
}

func (m *MockNotifier) DismissNotification(notificationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Dismissed = append(m.Dismissed, notificationID)
}

func (m *MockNotifier) NotifyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Notified)
}

func (m *MockNotifier) DismissCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Dismissed)
}

// MockAudio implements interfaces.AudioPlayerInterface.
type MockAudio struct {
	mu sync.Mutex

	PlayErr    error
	PlayCalls  []int
	StopCalls  []int
	LoopByCall []bool
}

func (m *MockAudio) Play(thresholdMinutes int, loop bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PlayErr != nil {
		return m.PlayErr
	}
	m.PlayCalls = append(m.PlayCalls, thresholdMinutes)
	m.LoopByCall = append(m.LoopByCall, loop)
	return nil
}

func (m *MockAudio) Stop(thresholdMinutes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StopCalls = append(m.StopCalls, thresholdMinutes)
}

func (m *MockAudio) Playing() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.PlayCalls) - len(m.StopCalls)
}

// MockMetrics implements providers.MetricsProviderInterface and counts
// the domain-side signals tests care about.
type MockMetrics struct {
	mu sync.Mutex

	ReconcileOutcomes map[string]int
	ExtensionResults  map[string]int
	AckFailures       int
	ActiveAlerts      int
	Ticks             int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		ReconcileOutcomes: make(map[string]int),
		ExtensionResults:  make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}

func (m *MockMetrics) IncReconcileOutcome(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReconcileOutcomes[outcome]++
}

func (m *MockMetrics) ObserveTickDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ticks++
}

func (m *MockMetrics) IncExtension(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExtensionResults[result]++
}

func (m *MockMetrics) IncAckFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AckFailures++
}

func (m *MockMetrics) SetActiveAlerts(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ActiveAlerts = count
}

func (m *MockMetrics) Outcome(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ReconcileOutcomes[outcome]
}

func (m *MockMetrics) Extension(result string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ExtensionResults[result]
}

func (m *MockMetrics) AckFailureCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.AckFailures
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}
