// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"devmastery/internal/apiclient"
	"devmastery/internal/models"
	"devmastery/internal/taxonomy"
)

// retryHint is printed after a failed fetch. Retrying is manual.
const retryHint = "Could not reach the DevMastery API. Check that the server is running and try the command again."

func (a *app) client(apiURL string) (*apiclient.Client, error) {
	if apiURL == "" {
		apiURL = a.cfg.APIBaseURL
	}
	return apiclient.New(apiURL, a.cfg.FetchTimeout)
}

func (a *app) topicsCmd() *cobra.Command {
	var apiURL, search, category string
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List topics from a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := taxonomy.ParseCategory(category)
			if err != nil {
				return err
			}
			client, err := a.client(apiURL)
			if err != nil {
				return err
			}

			topics, err := client.ListTopics(cmd.Context())
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), retryHint)
				return err
			}

			filtered := taxonomy.Filter(topics, search, cat)
			printTopics(cmd.OutOrStdout(), filtered, taxonomy.ComputeStats(filtered))
			return nil
		},
	}
	cmd.Flags().StringVar(&apiURL, "api", "", "API base URL (default $API_BASE_URL)")
	cmd.Flags().StringVar(&search, "search", "", "keep topics whose name or description, or a subtopic's, contains this text")
	cmd.Flags().StringVar(&category, "category", "all", "one of all, programming, system-design, algorithms, databases")
	return cmd
}

func (a *app) browseCmd() *cobra.Command {
	var apiURL, tab string
	cmd := &cobra.Command{
		Use:   "browse <topic> [subtopic]",
		Short: "Show the content of a topic or subtopic page",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := taxonomy.ParseTab(tab)
			if err != nil {
				return err
			}
			client, err := a.client(apiURL)
			if err != nil {
				return err
			}
			service := taxonomy.NewService(client, a.cfg.FetchTimeout)

			var page *taxonomy.Page
			if len(args) == 1 {
				page, err = service.TopicPage(cmd.Context(), args[0])
			} else {
				page, err = service.SubTopicPage(cmd.Context(), args[0], args[1])
			}
			switch {
			case errors.Is(err, taxonomy.ErrTopicNotFound):
				return fmt.Errorf("topic %q not found", args[0])
			case errors.Is(err, taxonomy.ErrSubTopicNotFound):
				return fmt.Errorf("subtopic %q not found in topic %q", args[1], args[0])
			case err != nil:
				fmt.Fprintln(cmd.ErrOrStderr(), retryHint)
				return err
			}

			var view taxonomy.TabView
			view.Select(selected)
			printPage(cmd.OutOrStdout(), page, &view)
			return nil
		},
	}
	cmd.Flags().StringVar(&apiURL, "api", "", "API base URL (default $API_BASE_URL)")
	cmd.Flags().StringVar(&tab, "tab", "blogs", "one of blogs, notes, problems")
	return cmd
}

// printTopics renders the topic listing followed by its stats.
func printTopics(w io.Writer, topics []models.Topic, stats taxonomy.Stats) {
	if len(topics) == 0 {
		fmt.Fprintln(w, "No topics match.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Topic", "Slug", "Subtopics", "Blogs", "Notes", "Problems"})
	for _, topic := range topics {
		subs := make([]string, 0, len(topic.SubTopics))
		for _, st := range topic.SubTopics {
			subs = append(subs, st.Slug)
		}
		name := topic.Name
		if topic.Icon != "" {
			name = topic.Icon + " " + name
		}
		t.AppendRow(table.Row{
			name,
			topic.Slug,
			strings.Join(subs, ", "),
			topic.Count.Blogs,
			topic.Count.Notes,
			topic.Count.LeetcodeProblems,
		})
	}
	t.Render()

	fmt.Fprintf(w, "%d topics · %d blogs · %d notes · %d problems\n",
		stats.TopicCount, stats.BlogCount, stats.NoteCount, stats.ProblemCount)
}

// printPage renders a page header, the tab bar with per-tab counts, and the
// records of the selected tab.
func printPage(w io.Writer, page *taxonomy.Page, view *taxonomy.TabView) {
	title := page.Topic.Name
	description := page.Topic.Description
	if page.SubTopic != nil {
		title += " › " + page.SubTopic.Name
		description = page.SubTopic.Description
	}
	fmt.Fprintln(w, title)
	if description != "" {
		fmt.Fprintln(w, description)
	}
	fmt.Fprintln(w)

	tabs := make([]string, 0, len(taxonomy.Tabs))
	for _, tab := range taxonomy.Tabs {
		label := fmt.Sprintf("%s (%d)", tab.Label(), page.Content.Count(tab))
		if tab == view.Current() {
			label = "[" + label + "]"
		}
		tabs = append(tabs, label)
	}
	fmt.Fprintln(w, strings.Join(tabs, "  "))

	for _, kind := range page.Content.Failed {
		fmt.Fprintf(w, "warning: %s listing unavailable, results are partial\n", kind)
	}

	if page.Content.IsEmpty() {
		fmt.Fprintln(w, "No content yet.")
		return
	}

	items := view.Visible(page.Content)
	if len(items) == 0 {
		fmt.Fprintf(w, "No %s here.\n", strings.ToLower(view.Current().Label()))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Title", "Author", "Details", "Created"})
	for _, it := range items {
		t.AppendRow(table.Row{it.Title, it.Author, it.Detail, it.CreatedAt.Format("2006-01-02")})
	}
	t.Render()
}
