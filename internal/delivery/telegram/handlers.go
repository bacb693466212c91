package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"punch-payroll/internal/app/service"
	"punch-payroll/internal/delivery/telegram/router"
	"punch-payroll/internal/domain"
	"punch-payroll/internal/loader"
	"punch-payroll/internal/report"

	"gopkg.in/telebot.v3"
)

const (
	maxUploadBytes = 1 << 20
	calcTimeout    = 30 * time.Second
	historyLimit   = 5
	captionLimit   = 1024
)

// FileSource скачивает присланные в чат файлы. *telebot.Bot ему удовлетворяет.
type FileSource interface {
	File(file *telebot.File) (io.ReadCloser, error)
}

type Handler struct {
	Bot     *telebot.Bot
	Payroll domain.PayrollCalculator
	// Results необязателен: без него расчёты не сохраняются и /history не работает.
	Results *service.ResultService
	Router  *router.CallbackRouter
	// Files по умолчанию Bot.
	Files FileSource
}

var (
	btnCalc    = telebot.Btn{Text: "📄 Рассчитать"}
	btnBands   = telebot.Btn{Text: "📊 Ставки"}
	btnHistory = telebot.Btn{Text: "🕘 История"}
)

func (h *Handler) Register() {
	h.Bot.Handle("/start", h.handleStart)
	h.Bot.Handle("/bands", h.handleBands)
	h.Bot.Handle("/history", h.handleHistory)
	h.Bot.Handle(telebot.OnDocument, h.handleDocument)

	h.Bot.Handle(telebot.OnText, func(c telebot.Context) error {
		switch c.Text() {
		case btnCalc.Text:
			return c.Send("Пришлите файл .jsonc с jobMeta и employeeData.")
		case btnBands.Text:
			return h.handleBands(c)
		case btnHistory.Text:
			return h.handleHistory(c)
		}
		return nil
	})

	if h.Router == nil {
		h.Router = router.New()
	}
	h.Router.Register("show_run", h.handleShowRun)
	h.Router.Attach(h.Bot)
}

func (h *Handler) handleStart(c telebot.Context) error {
	markup := &telebot.ReplyMarkup{ResizeKeyboard: true}
	markup.Reply(
		markup.Row(markup.Text(btnCalc.Text)),
		markup.Row(markup.Text(btnBands.Text), markup.Text(btnHistory.Text)),
	)
	return c.Send("Добро пожаловать! Пришлите файл с отметками времени, и я посчитаю часы и выплаты.", markup)
}

func (h *Handler) handleBands(c telebot.Context) error {
	return c.Send(FormatBands(h.Payroll.Bands()))
}

func (h *Handler) handleDocument(c telebot.Context) error {
	doc := c.Message().Document
	if doc == nil {
		return nil
	}
	if doc.FileSize > maxUploadBytes {
		return c.Reply("Файл слишком большой (максимум 1 МБ).")
	}
	log.Printf("[bot] document chat=%d name=%q size=%d", c.Chat().ID, doc.FileName, doc.FileSize)

	rc, err := h.files().File(&doc.File)
	if err != nil {
		return c.Reply("Не удалось скачать файл: " + err.Error())
	}
	defer rc.Close()

	parsed, err := loader.Parse(io.LimitReader(rc, maxUploadBytes))
	if err != nil {
		return c.Reply("Ошибка во входных данных: " + err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), calcTimeout)
	defer cancel()
	results, err := h.Payroll.Allocate(ctx, parsed)
	if err != nil {
		return c.Reply("Ошибка расчёта: " + err.Error())
	}

	data, err := report.Encode(results)
	if err != nil {
		return c.Reply("Ошибка формирования отчёта: " + err.Error())
	}

	if h.Results != nil {
		id, err := h.Results.Record(chatSource(c.Chat().ID), results)
		if err != nil {
			log.Printf("[bot] store run chat=%d: %v", c.Chat().ID, err)
		} else {
			log.Printf("[bot] stored run=%d chat=%d employees=%d", id, c.Chat().ID, results.Len())
		}
	}

	return c.Reply(&telebot.Document{
		File:     telebot.FromReader(bytes.NewReader(data)),
		FileName: report.DefaultFileName,
		MIME:     "application/json",
		Caption:  Truncate(FormatSummary(results), captionLimit),
	})
}

func (h *Handler) files() FileSource {
	if h.Files != nil {
		return h.Files
	}
	return h.Bot
}

func (h *Handler) handleHistory(c telebot.Context) error {
	if h.Results == nil {
		return c.Send("История не ведётся: база данных не настроена.")
	}
	runs, err := h.Results.History(chatSource(c.Chat().ID), historyLimit)
	if err != nil {
		return c.Send("Ошибка при получении истории: " + err.Error())
	}
	if len(runs) == 0 {
		return c.Send("Расчётов пока не было.")
	}

	markup := &telebot.ReplyMarkup{}
	rows := make([]telebot.Row, 0, len(runs))
	var msg strings.Builder
	msg.WriteString("Последние расчёты:\n")
	for _, run := range runs {
		fmt.Fprintf(&msg, "#%d — %s, сотрудников: %d\n", run.ID, run.CreatedAt.Format("02.01.2006 15:04"), run.Employees)
		id := strconv.FormatInt(run.ID, 10)
		rows = append(rows, markup.Row(markup.Data("Показать #"+id, "show_run", id)))
	}
	markup.Inline(rows...)
	return c.Send(msg.String(), markup)
}

func (h *Handler) handleShowRun(c telebot.Context, payload string) error {
	if h.Results == nil {
		return nil
	}
	id, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		return c.Send("Некорректный номер расчёта.")
	}
	run, err := h.Results.GetRun(id)
	if err != nil || run.Source != chatSource(c.Chat().ID) {
		return c.Send("Расчёт не найден.")
	}
	return c.Send(Truncate(FormatSummary(run.Results), 4096))
}

func chatSource(chatID int64) string {
	return "telegram:" + strconv.FormatInt(chatID, 10)
}

// FormatSummary выводит по строке на сотрудника: часы по диапазонам, оплата и льготы.
func FormatSummary(results domain.Results) string {
	if results.Len() == 0 {
		return "Нет сотрудников."
	}
	var b strings.Builder
	for _, r := range results.All() {
		b.WriteString(r.Employee)
		b.WriteString(":")
		for _, bh := range r.Bands {
			fmt.Fprintf(&b, " %s %s", bh.Label, domain.FormatFixed(bh.Hours))
		}
		fmt.Fprintf(&b, "; оплата %s; льготы %s\n", domain.FormatFixed(r.WageTotal), domain.FormatFixed(r.BenefitTotal))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func FormatBands(bands []domain.PayBand) string {
	var b strings.Builder
	b.WriteString("Тарифная сетка:")
	for _, band := range bands {
		b.WriteString("\n")
		b.WriteString(band.String())
	}
	return b.String()
}

// Truncate обрезает s до limit рун и ставит многоточие на месте обреза.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return string(r[:limit])
	}
	return string(r[:limit-1]) + "…"
}
