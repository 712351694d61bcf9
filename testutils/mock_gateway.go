package testutils

import (
	"sync"
	"time"

	"patternbot/types"
)

// StopModification captures one ModifyStopLoss call for assertions.
type StopModification struct {
	Ticket  int64
	NewStop float64
}

// MockGateway implements the Gateway interface in-memory with scriptable
// behaviour: seed bars and quotes, preset positions, force rejections, and
// inspect every call the engine made.
type MockGateway struct {
	mu sync.Mutex

	// Script knobs.
	OpenErr       error
	RejectSubmits bool
	RejectModify  bool

	bars       map[string][]types.Bar
	quotes     map[string]types.Quote
	positions  []types.Position
	nextTicket int64

	opened        int
	closedCount   int
	barsRequests  []string
	submitted     []types.OrderRequest
	modifications []StopModification
}

func NewMockGateway() *MockGateway {
	return &MockGateway{
		bars:       make(map[string][]types.Bar),
		quotes:     make(map[string]types.Quote),
		nextTicket: 1,
	}
}

func (m *MockGateway) SetBars(symbol string, bars []types.Bar) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bars[symbol] = append([]types.Bar(nil), bars...)
}

func (m *MockGateway) SetQuote(symbol string, q types.Quote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[symbol] = q
}

// AddPosition presets an open position, assigning a ticket if absent.
func (m *MockGateway) AddPosition(pos types.Position) types.Position {
	m.mu.Lock()
	defer m.mu.Unlock()
	if pos.Ticket == 0 {
		pos.Ticket = m.nextTicket
		m.nextTicket++
	}
	m.positions = append(m.positions, pos)
	return pos
}

func (m *MockGateway) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.OpenErr != nil {
		return m.OpenErr
	}
	m.opened++
	return nil
}

func (m *MockGateway) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closedCount++
}

func (m *MockGateway) Bars(symbol string, _ time.Duration, count int) []types.Bar {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.barsRequests = append(m.barsRequests, symbol)
	bars := m.bars[symbol]
	if len(bars) > count {
		bars = bars[len(bars)-count:]
	}
	return append([]types.Bar(nil), bars...)
}

func (m *MockGateway) Quote(symbol string) (types.Quote, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quotes[symbol]
	return q, ok
}

func (m *MockGateway) OpenPositions() []types.Position {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.Position(nil), m.positions...)
}

// Submit records the request and, when accepted, opens a matching position
// so cap re-checks observe the fill.
func (m *MockGateway) Submit(req types.OrderRequest) types.OrderResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitted = append(m.submitted, req)
	if m.RejectSubmits {
		return types.OrderResult{Reason: "rejected"}
	}
	m.positions = append(m.positions, types.Position{
		Ticket:     m.nextTicket,
		Symbol:     req.Symbol,
		Side:       req.Side,
		Volume:     req.Volume,
		OpenPrice:  req.Price,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
	})
	m.nextTicket++
	return types.OrderResult{Accepted: true}
}

func (m *MockGateway) ModifyStopLoss(ticket int64, newStop float64) types.OrderResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modifications = append(m.modifications, StopModification{Ticket: ticket, NewStop: newStop})
	if m.RejectModify {
		return types.OrderResult{Reason: "rejected"}
	}
	for i := range m.positions {
		if m.positions[i].Ticket == ticket {
			m.positions[i].StopLoss = newStop
			return types.OrderResult{Accepted: true}
		}
	}
	return types.OrderResult{Reason: "unknown ticket"}
}

// BarsRequests returns the symbols fetched, in call order.
func (m *MockGateway) BarsRequests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.barsRequests...)
}

// Submitted returns every order request seen, accepted or not.
func (m *MockGateway) Submitted() []types.OrderRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.OrderRequest(nil), m.submitted...)
}

// Modifications returns every stop-modification request seen.
func (m *MockGateway) Modifications() []StopModification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]StopModification(nil), m.modifications...)
}

// Closed reports how many times the session was released.
func (m *MockGateway) Closed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closedCount
}
