package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/lox/holdem-tables/internal/server"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	liveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Padding(0, 1)
)

// TablesCmd prints the lobby of a running server
type TablesCmd struct {
	Server  string        `short:"s" default:"http://localhost:8080" help:"Server base URL"`
	Timeout time.Duration `default:"5s" help:"Request timeout"`
}

func (c *TablesCmd) Run() error {
	client := &http.Client{Timeout: c.Timeout}
	resp, err := client.Get(strings.TrimSuffix(c.Server, "/") + "/tables")
	if err != nil {
		return fmt.Errorf("fetch tables: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch tables: %s", resp.Status)
	}

	var data server.TablesData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return fmt.Errorf("decode tables: %w", err)
	}
	if len(data.Tables) == 0 {
		fmt.Println("No tables")
		return nil
	}

	rows := make([][]string, 0, len(data.Tables))
	for _, t := range data.Tables {
		status := "waiting"
		if t.InProgress {
			status = "hand " + strconv.Itoa(t.HandNumber)
		}
		rows = append(rows, []string{
			t.Code,
			t.Name,
			fmt.Sprintf("%d/%d", t.Seated, t.MaxSeats),
			strconv.Itoa(t.Players),
			fmt.Sprintf("%d/%d", t.SmallBlind, t.BigBlind),
			status,
		})
	}

	out := ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers("CODE", "NAME", "SEATED", "JOINED", "BLINDS", "STATUS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == ltable.HeaderRow:
				return headerStyle
			case col == 5 && data.Tables[row].InProgress:
				return liveStyle
			default:
				return cellStyle
			}
		})
	fmt.Println(out)
	return nil
}
