package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/sun1tar/todo-app/clients/tui/internal/todoclient"
)

// Тексты ошибок, которые видит пользователь; подробности уходят в лог
const (
	LoadErrorText   = "Failed to load todos. Please try again."
	AddErrorText    = "Failed to add todo. Please try again."
	ToggleErrorText = "Failed to update todo. Please try again."
	DeleteErrorText = "Failed to delete todo. Please try again."
)

// API - вызовы клиента, которые нужны компоненту
type API interface {
	List(ctx context.Context) ([]todoclient.TodoItem, error)
	Create(ctx context.Context, in todoclient.TodoInput) (todoclient.TodoItem, error)
	Toggle(ctx context.Context, id int64) (todoclient.TodoItem, error)
	Delete(ctx context.Context, id int64) error
}

type operation string

const (
	opLoad   operation = "load"
	opAdd    operation = "add"
	opToggle operation = "toggle"
	opDelete operation = "delete"
)

// --- Tea Messages ---

type todosLoadedMsg struct{ todos []todoclient.TodoItem }

type todoAddedMsg struct{ todo todoclient.TodoItem }

type todoToggledMsg struct{ todo todoclient.TodoItem }

type todoDeletedMsg struct{ id int64 }

type opFailedMsg struct {
	op  operation
	err error
}

// Component - экран списка дел. Сетевые вызовы идут командами Bubble Tea,
// результаты применяются в Update. Взаимного исключения нет: второе действие
// можно запустить, не дожидаясь ответа на первое.
type Component struct {
	api    API
	logger *logrus.Logger
	ctx    context.Context

	todos   []todoclient.TodoItem
	loading bool
	err     string
	cursor  int

	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    KeyMap
	styles  Styles
}

func New(api API, logger *logrus.Logger) *Component {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 200
	ti.Prompt = "+ "
	ti.Focus()

	return &Component{
		api:     api,
		logger:  logger,
		ctx:     context.Background(),
		input:   ti,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
		keys:    DefaultKeyMap(),
		styles:  DefaultStyles(),
	}
}

// Todos, DraftTitle, Loading, ErrorText - текущее состояние экрана
func (c *Component) Todos() []todoclient.TodoItem { return c.todos }
func (c *Component) DraftTitle() string           { return c.input.Value() }
func (c *Component) Loading() bool                { return c.loading }
func (c *Component) ErrorText() string            { return c.err }

func (c *Component) SetDraftTitle(s string) {
	c.input.SetValue(s)
}

func (c *Component) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, c.load())
}

func (c *Component) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return c, c.handleKey(msg)

	case tea.WindowSizeMsg:
		c.input.Width = msg.Width - 8
		c.help.Width = msg.Width
		return c, nil

	case spinner.TickMsg:
		if !c.loading {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd

	case todosLoadedMsg:
		c.todos = msg.todos
		c.loading = false
		c.clampCursor()
		return c, nil

	case todoAddedMsg:
		c.todos = append([]todoclient.TodoItem{msg.todo}, c.todos...)
		c.input.Reset()
		c.err = ""
		return c, nil

	case todoToggledMsg:
		for i := range c.todos {
			if c.todos[i].ID == msg.todo.ID {
				c.todos[i] = msg.todo
				break
			}
		}
		c.err = ""
		return c, nil

	case todoDeletedMsg:
		kept := make([]todoclient.TodoItem, 0, len(c.todos))
		for _, t := range c.todos {
			if t.ID != msg.id {
				kept = append(kept, t)
			}
		}
		c.todos = kept
		c.clampCursor()
		c.err = ""
		return c, nil

	case opFailedMsg:
		c.fail(msg)
		return c, nil
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c *Component) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, c.keys.Quit):
		return tea.Quit
	case key.Matches(msg, c.keys.Add):
		return c.addTodo()
	case key.Matches(msg, c.keys.Toggle):
		if t, ok := c.selected(); ok {
			return c.toggleTodo(t.ID)
		}
		return nil
	case key.Matches(msg, c.keys.Delete):
		if t, ok := c.selected(); ok {
			return c.deleteTodo(t.ID)
		}
		return nil
	case key.Matches(msg, c.keys.Reload):
		return c.load()
	case key.Matches(msg, c.keys.Up):
		if c.cursor > 0 {
			c.cursor--
		}
		return nil
	case key.Matches(msg, c.keys.Down):
		if c.cursor < len(c.todos)-1 {
			c.cursor++
		}
		return nil
	}

	// остальные клавиши редактируют черновик
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

// load выставляет loading и сбрасывает ошибку до запроса
func (c *Component) load() tea.Cmd {
	c.loading = true
	c.err = ""

	api, ctx := c.api, c.ctx
	fetch := func() tea.Msg {
		todos, err := api.List(ctx)
		if err != nil {
			return opFailedMsg{op: opLoad, err: err}
		}
		return todosLoadedMsg{todos: todos}
	}
	return tea.Batch(fetch, c.spinner.Tick)
}

// addTodo ничего не делает для пустого или пробельного черновика
func (c *Component) addTodo() tea.Cmd {
	title := strings.TrimSpace(c.input.Value())
	if title == "" {
		return nil
	}

	api, ctx := c.api, c.ctx
	return func() tea.Msg {
		todo, err := api.Create(ctx, todoclient.TodoInput{Title: title, IsCompleted: false})
		if err != nil {
			return opFailedMsg{op: opAdd, err: err}
		}
		return todoAddedMsg{todo: todo}
	}
}

func (c *Component) toggleTodo(id int64) tea.Cmd {
	api, ctx := c.api, c.ctx
	return func() tea.Msg {
		todo, err := api.Toggle(ctx, id)
		if err != nil {
			return opFailedMsg{op: opToggle, err: err}
		}
		return todoToggledMsg{todo: todo}
	}
}

func (c *Component) deleteTodo(id int64) tea.Cmd {
	api, ctx := c.api, c.ctx
	return func() tea.Msg {
		if err := api.Delete(ctx, id); err != nil {
			return opFailedMsg{op: opDelete, err: err}
		}
		return todoDeletedMsg{id: id}
	}
}

func (c *Component) fail(msg opFailedMsg) {
	c.logger.WithFields(logrus.Fields{
		"component": "todo_ui",
		"operation": string(msg.op),
	}).WithError(msg.err).Error("todo operation failed")

	switch msg.op {
	case opLoad:
		c.err = LoadErrorText
		c.loading = false
	case opAdd:
		c.err = AddErrorText
	case opToggle:
		c.err = ToggleErrorText
	case opDelete:
		c.err = DeleteErrorText
	}
}

func (c *Component) selected() (todoclient.TodoItem, bool) {
	if c.cursor < 0 || c.cursor >= len(c.todos) {
		return todoclient.TodoItem{}, false
	}
	return c.todos[c.cursor], true
}

func (c *Component) clampCursor() {
	if c.cursor >= len(c.todos) {
		c.cursor = len(c.todos) - 1
	}
	if c.cursor < 0 {
		c.cursor = 0
	}
}
