// Package render рисует PNG-сетку слотов: колонки по дням, строки по часам.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/Freeeeeet/slot_finder/internal/model"
)

// ErrNoSlots нечего рисовать
var ErrNoSlots = errors.New("no slots to render")

// MaxDays больше дней в одну картинку не помещается
const MaxDays = 7

// Константы размеров и отступов
const (
	headerHeight     = 70
	leftLabelsWidth  = 60
	legendWidth      = 110
	dayWidth         = 170
	hourHeight       = 56.0
	dayPaddingX      = 6
	minSlotHeight    = 6.0
	slotBorderRadius = 4.0
	shadowOffset     = 2.0
	hourPadding      = 1
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{220, 220, 220, 255}

	slotFreeColor     = color.RGBA{133, 193, 85, 220}
	slotBusyColor     = color.RGBA{255, 182, 193, 255}
	slotFreeTextColor = color.RGBA{20, 24, 28, 230}
	slotBusyTextColor = color.RGBA{120, 40, 50, 255}
	slotShadowColor   = color.RGBA{0, 0, 0, 20}

	legendItemColor = color.RGBA{70, 74, 78, 220}
)

// hourRange диапазон часов на картинке
type hourRange struct {
	start int
	end   int
}

func (h hourRange) total() int {
	return h.end - h.start
}

// grid раскладка слотов по дням
type grid struct {
	days  []time.Time
	byDay map[string][]model.Slot
	hours hourRange
}

// GenerateAvailabilityImage рисует слоты: зелёные свободны, розовые заняты.
// Слоты группируются по дню начала; рисуются не больше MaxDays дней от первого слота.
func GenerateAvailabilityImage(slots []model.Slot) ([]byte, error) {
	if len(slots) == 0 {
		return nil, ErrNoSlots
	}

	layout := buildGrid(slots)

	width := leftLabelsWidth + len(layout.days)*dayWidth + legendWidth
	height := headerHeight + int(float64(layout.hours.total())*hourHeight) + 10

	dc := gg.NewContext(width, height)
	dc.SetColor(bgColor)
	dc.Clear()
	// basicfont содержит только ASCII
	dc.SetFontFace(basicfont.Face7x13)

	drawHeader(dc, layout.days)
	drawHourLabels(dc, layout.hours)
	for i, day := range layout.days {
		drawDay(dc, i, day, layout)
	}
	drawLegend(dc, len(layout.days))

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func buildGrid(slots []model.Slot) grid {
	first := dayOf(slots[0].StartTime)
	last := first.AddDate(0, 0, MaxDays-1)

	g := grid{
		byDay: make(map[string][]model.Slot),
		hours: hourRange{start: 24, end: 0},
	}

	lastDay := first
	for _, slot := range slots {
		day := dayOf(slot.StartTime)
		if day.Before(first) || day.After(last) {
			continue
		}
		if day.After(lastDay) {
			lastDay = day
		}

		key := day.Format(time.DateOnly)
		g.byDay[key] = append(g.byDay[key], slot)

		startH := slot.StartTime.Hour()
		endH := endHour(slot)
		if startH < g.hours.start {
			g.hours.start = startH
		}
		if endH > g.hours.end {
			g.hours.end = endH
		}
	}

	for day := first; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		g.days = append(g.days, day)
	}

	g.hours.start = max(g.hours.start-hourPadding, 0)
	g.hours.end = min(g.hours.end+hourPadding, 24)
	if g.hours.end <= g.hours.start {
		g.hours.end = g.hours.start + 1
	}

	return g
}

// endHour час конца слота, округлённый вверх; переход через полночь обрезается до 24
func endHour(slot model.Slot) int {
	if !dayOf(slot.EndTime).Equal(dayOf(slot.StartTime)) {
		return 24
	}

	h := slot.EndTime.Hour()
	if slot.EndTime.Minute() > 0 || slot.EndTime.Second() > 0 {
		h++
	}
	return h
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func hourOf(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60.0 + float64(t.Second())/3600.0
}

func drawHeader(dc *gg.Context, days []time.Time) {
	title := days[0].Format("02.01.2006")
	if len(days) > 1 {
		title += " - " + days[len(days)-1].Format("02.01.2006")
	}

	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, 10, 20, 0, 0.5)
}

func drawHourLabels(dc *gg.Context, hours hourRange) {
	dc.SetColor(hourLabelColor)

	for h := hours.start; h <= hours.end; h++ {
		y := float64(headerHeight) + float64(h-hours.start)*hourHeight
		dc.DrawStringAnchored(fmt.Sprintf("%02d:00", h), float64(leftLabelsWidth)-8, y, 1, 0.5)
	}
}

func drawDay(dc *gg.Context, index int, day time.Time, layout grid) {
	x := float64(leftLabelsWidth + index*dayWidth)
	y := float64(headerHeight)
	height := float64(layout.hours.total()) * hourHeight

	if index%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, dayWidth, height)
	dc.Fill()

	dc.SetColor(textColor)
	dc.DrawStringAnchored(day.Format("Mon 02.01"), x+dayWidth/2, y-14, 0.5, 0.5)

	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)
	for h := 0; h <= layout.hours.total(); h++ {
		hy := y + float64(h)*hourHeight
		dc.DrawLine(x, hy, x+dayWidth, hy)
		dc.Stroke()
	}

	for _, slot := range layout.byDay[day.Format(time.DateOnly)] {
		drawSlot(dc, slot, x, y, layout.hours)
	}
}

func drawSlot(dc *gg.Context, slot model.Slot, x, y float64, hours hourRange) {
	from := hourOf(slot.StartTime)
	to := hourOf(slot.EndTime)
	if !dayOf(slot.EndTime).Equal(dayOf(slot.StartTime)) {
		to = 24
	}

	slotY := y + (from-float64(hours.start))*hourHeight
	slotHeight := (to - from) * hourHeight
	if slotHeight < minSlotHeight {
		slotHeight = minSlotHeight
	}

	fill, text := slotFreeColor, slotFreeTextColor
	if !slot.Available {
		fill, text = slotBusyColor, slotBusyTextColor
	}

	slotX := x + dayPaddingX
	slotWidth := float64(dayWidth - dayPaddingX*2)

	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(slotX+shadowOffset, slotY+1+shadowOffset, slotWidth, slotHeight-2, slotBorderRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(slotX, slotY+1, slotWidth, slotHeight-2, slotBorderRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(slotX, slotY+1, slotWidth, slotHeight-2, slotBorderRadius)
	dc.Stroke()

	// Подпись влезает только в слот от ~15 минут
	if slotHeight >= 12 {
		dc.SetColor(text)
		label := slot.StartTime.Format("15:04") + "-" + slot.EndTime.Format("15:04")
		dc.DrawStringAnchored(label, slotX+6, slotY+slotHeight/2, 0, 0.35)
	}
}

func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func drawLegend(dc *gg.Context, days int) {
	x := float64(leftLabelsWidth+days*dayWidth) + 12
	y := float64(headerHeight) + 10

	items := []struct {
		label string
		clr   color.Color
	}{
		{"free", slotFreeColor},
		{"busy", slotBusyColor},
	}

	const boxW, boxH = 20.0, 14.0

	for _, item := range items {
		dc.SetColor(item.clr)
		dc.DrawRoundedRectangle(x, y, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.label, x+boxW+8, y+boxH/2, 0, 0.35)
		y += boxH + 14
	}
}
