package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/market"
	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/model"
)

// ── styles ────────────────────────────────────────────────────────────────────

var (
	bullStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#26a641"))
	bearStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e05c5c"))
	wickStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	axisStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#aaaaaa"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	errStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e05c5c"))
	panelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cccccc"))
)

// ── messages ──────────────────────────────────────────────────────────────────

type refreshMsg struct{}

// ── model ─────────────────────────────────────────────────────────────────────

type uiModel struct {
	store   *market.Store
	depth   int
	updates <-chan struct{}

	width  int
	height int
}

func newModel(store *market.Store, depth int, updates <-chan struct{}) uiModel {
	return uiModel{
		store:   store,
		depth:   depth,
		updates: updates,
	}
}

// ── Init / Update / View ──────────────────────────────────────────────────────

func (m uiModel) Init() tea.Cmd {
	return waitForRefresh(m.updates)
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case refreshMsg:
		return m, waitForRefresh(m.updates)
	}

	return m, nil
}

func (m uiModel) View() string {
	if m.width == 0 {
		return "connecting…"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')

	// Book ladder and trade tape side by side, chart below.
	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderBook(),
		"   ",
		m.renderTrades(),
	)
	b.WriteString(panels)
	b.WriteByte('\n')
	b.WriteString(m.renderChart())
	b.WriteByte('\n')
	b.WriteString(footerStyle.Render("[q] quit"))
	return b.String()
}

// waitForRefresh blocks on the update channel and fires a repaint.
func waitForRefresh(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return refreshMsg{}
	}
}

// ── header ────────────────────────────────────────────────────────────────────

func (m uiModel) renderHeader() string {
	loading, lastErr, updatedAt := m.store.Status()

	head := fmt.Sprintf("%s  %s  last %s", m.store.Coin(), m.store.Interval(), fmtPrice(m.store.LastPrice()))
	if book, ok := m.store.OrderBook(); ok {
		head += fmt.Sprintf("  spread %s", fmtPrice(market.Spread(book)))
	}
	if acct, ok := m.store.AccountState(); ok {
		head += fmt.Sprintf("  equity %.2f  positions %d", acct.AccountValue, len(acct.Positions))
	}
	if !updatedAt.IsZero() {
		head += dimStyle.Render(fmt.Sprintf("  updated %s", updatedAt.Format("15:04:05")))
	}

	line := headerStyle.Render(head)
	switch {
	case lastErr != nil:
		line += "  " + errStyle.Render("ERR: "+lastErr.Error())
	case loading:
		line += "  " + dimStyle.Render("loading…")
	}
	return line
}

// ── book ladder ───────────────────────────────────────────────────────────────

func (m uiModel) renderBook() string {
	var b strings.Builder
	b.WriteString(panelStyle.Render(fmt.Sprintf("%-12s %-10s", "PRICE", "SIZE")))
	b.WriteByte('\n')

	book, ok := m.store.OrderBook()
	if !ok {
		b.WriteString(dimStyle.Render("no book yet"))
		return b.String()
	}
	market.ClampDepth(&book, m.depth)

	// Asks render top-down so the best ask sits against the spread line.
	for i := len(book.Asks) - 1; i >= 0; i-- {
		lvl := book.Asks[i]
		b.WriteString(bearStyle.Render(fmt.Sprintf("%-12s %-10s", fmtPrice(lvl.Price), fmtSize(lvl.Size))))
		b.WriteByte('\n')
	}
	b.WriteString(axisStyle.Render(fmt.Sprintf("── mid %s ──", fmtPrice(market.MidPrice(book)))))
	b.WriteByte('\n')
	for _, lvl := range book.Bids {
		b.WriteString(bullStyle.Render(fmt.Sprintf("%-12s %-10s", fmtPrice(lvl.Price), fmtSize(lvl.Size))))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// ── trade tape ────────────────────────────────────────────────────────────────

func (m uiModel) renderTrades() string {
	var b strings.Builder
	b.WriteString(panelStyle.Render(fmt.Sprintf("%-9s %-4s %-12s %-10s", "TIME", "SIDE", "PRICE", "SIZE")))
	b.WriteByte('\n')

	trades := m.store.Trades()
	if len(trades) == 0 {
		b.WriteString(dimStyle.Render("no trades yet"))
		return b.String()
	}

	rows := 2*m.depth + 1 // match book panel height
	if len(trades) > rows {
		trades = trades[:rows]
	}
	for _, tr := range trades {
		style := bullStyle
		side := "BUY"
		if tr.Side == model.SideSell {
			style = bearStyle
			side = "SELL"
		}
		ts := time.UnixMilli(tr.Time).UTC().Format("15:04:05")
		b.WriteString(style.Render(fmt.Sprintf("%-9s %-4s %-12s %-10s", ts, side, fmtPrice(tr.Price), fmtSize(tr.Size))))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// ── chart ─────────────────────────────────────────────────────────────────────

const yAxisWidth = 11 // "  12345.67 │"

func (m uiModel) renderChart() string {
	// Reserve: header + book/tape panels + x-axis + footer.
	chartH := m.height - (2*m.depth + 1) - 4
	if chartH < 3 {
		chartH = 3
	}

	candles := m.store.Candles()
	if len(candles) == 0 {
		return dimStyle.Render("no candles yet")
	}

	chartW := m.width - yAxisWidth
	maxCols := chartW / 2 // each candle occupies 2 chars
	if maxCols < 1 {
		maxCols = 1
	}
	if len(candles) > maxCols {
		candles = candles[len(candles)-maxCols:]
	}

	hi, lo := priceRange(candles)
	if hi == lo {
		hi = lo + 1
	}

	cols := len(candles) * 2
	grid := make([][]string, chartH)
	for r := range grid {
		grid[r] = make([]string, cols)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}

	for i, c := range candles {
		renderCandle(grid, c, i*2, chartH, hi, lo)
	}

	var b strings.Builder
	for row := 0; row < chartH; row++ {
		price := rowToPrice(row, chartH, hi, lo)
		b.WriteString(axisStyle.Render(fmt.Sprintf("%9.2f │", price)))
		b.WriteString(strings.Join(grid[row], ""))
		b.WriteByte('\n')
	}
	b.WriteString(axisStyle.Render(strings.Repeat("─", yAxisWidth+cols)))

	return b.String()
}

// renderCandle paints one candle into the grid at column x (2 wide).
func renderCandle(grid [][]string, c model.Candle, x, chartH int, hi, lo float64) {
	bullish := c.Close >= c.Open
	style := bullStyle
	if !bullish {
		style = bearStyle
	}

	fH := float64(chartH)
	bodyTop := priceToRow(math.Max(c.Open, c.Close), fH, hi, lo)
	bodyBot := priceToRow(math.Min(c.Open, c.Close), fH, hi, lo)
	wickTop := priceToRow(c.High, fH, hi, lo)
	wickBot := priceToRow(c.Low, fH, hi, lo)

	for row := 0; row < chartH; row++ {
		inBody := row >= bodyTop && row <= bodyBot
		inWick := row >= wickTop && row <= wickBot

		var left, right string
		switch {
		case inBody:
			left = style.Render("█")
			right = style.Render("█")
		case inWick:
			left = wickStyle.Render("│")
			right = " "
		default:
			left = " "
			right = " "
		}

		if x < len(grid[row]) {
			grid[row][x] = left
		}
		if x+1 < len(grid[row]) {
			grid[row][x+1] = right
		}
	}
}

// priceToRow converts a price to a grid row (0 = top = high).
func priceToRow(price, chartH float64, hi, lo float64) int {
	if hi == lo {
		return int(chartH) / 2
	}
	row := (hi - price) / (hi - lo) * (chartH - 1)
	r := int(math.Round(row))
	if r < 0 {
		r = 0
	}
	if r >= int(chartH) {
		r = int(chartH) - 1
	}
	return r
}

// rowToPrice is the inverse of priceToRow.
func rowToPrice(row, chartH int, hi, lo float64) float64 {
	if chartH <= 1 {
		return hi
	}
	return hi - float64(row)/float64(chartH-1)*(hi-lo)
}

// priceRange returns the overall high and low across the visible candles.
func priceRange(candles []model.Candle) (hi, lo float64) {
	hi = -math.MaxFloat64
	lo = math.MaxFloat64
	for _, c := range candles {
		if c.High > hi {
			hi = c.High
		}
		if c.Low < lo {
			lo = c.Low
		}
	}
	if hi == -math.MaxFloat64 {
		hi = 0
	}
	if lo == math.MaxFloat64 {
		lo = 0
	}
	return
}

// ── formatting ────────────────────────────────────────────────────────────────

func fmtPrice(p float64) string {
	switch {
	case p == 0:
		return "-"
	case p >= 1000:
		return fmt.Sprintf("%.1f", p)
	case p >= 1:
		return fmt.Sprintf("%.3f", p)
	default:
		return fmt.Sprintf("%.6f", p)
	}
}

func fmtSize(s float64) string {
	return fmt.Sprintf("%.4f", s)
}
