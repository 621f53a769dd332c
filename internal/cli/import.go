package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topicgrid/pkg/forum"
	"github.com/matzehuels/topicgrid/pkg/topics"
)

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var (
		output string
		remote remoteFlags
	)

	cmd := &cobra.Command{
		Use:   "import [topics]",
		Short: "Import a topic list into a SQLite store",
		Long: `Import a topic list into a SQLite store.

The input is a saved HTML topic list (rows marked with data-topic-id), a
JSON topic list, or the URL of a Discourse forum, whose latest list is read
through its JSON API. Topics without an id get a random one. The output is
a SQLite store, or a JSON topic list when the output ends in .json.
Importing into an existing store replaces its contents.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), args[0], output, remote)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.db, or <host>.db for a URL)")
	cmd.Flags().StringVarP(&remote.category, "category", "c", "", "forum category slug to import")
	cmd.Flags().IntVar(&remote.pages, "pages", 1, "number of forum pages to follow")
	cmd.Flags().BoolVar(&remote.refresh, "refresh", false, "ignore cached forum responses")
	cmd.Flags().StringVar(&remote.apiUser, "api-username", "system", "forum API username (with "+apiKeyEnv+")")

	return cmd
}

func (c *CLI) runImport(ctx context.Context, input, output string, remote remoteFlags) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	var (
		ts   []topics.Topic
		path = output
		err  error
	)
	if isURL(input) {
		ts, err = c.fetchTopics(ctx, input, remote)
		if path == "" {
			path = hostBase(input) + ".db"
		}
	} else {
		ts, err = loadTopics(ctx, input, "")
		if path == "" {
			path = outputBase(input, "") + ".db"
		}
	}
	if err != nil {
		return fmt.Errorf("load topics %s: %w", input, err)
	}
	logger.Debug("read topics", "source", input, "count", len(ts))

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := topics.WriteFile(path, ts); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	} else {
		store, err := topics.Open(path)
		if err != nil {
			return fmt.Errorf("open store %s: %w", path, err)
		}
		defer store.Close()
		if err := store.Save(ctx, ts); err != nil {
			return fmt.Errorf("save topics: %w", err)
		}
	}
	prog.done("imported topics", "count", len(ts), "output", path)

	printSuccess("Imported %d topics", len(ts))
	printFile(path)
	printNewline()
	printNextStep("Lay out", appName+" layout "+path)

	return nil
}

// apiKeyEnv names the environment variable holding a forum API key.
const apiKeyEnv = "TOPICGRID_API_KEY"

// remoteFlags holds the import flags that only apply to forum URLs.
type remoteFlags struct {
	category string
	pages    int
	refresh  bool
	apiUser  string
}

// fetchTopics reads the latest list from a forum, caching responses in the
// configured cache.
func (c *CLI) fetchTopics(ctx context.Context, baseURL string, remote remoteFlags) ([]topics.Topic, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	ch, err := c.newCache(ctx, cfg, false)
	if err != nil {
		return nil, err
	}
	defer ch.Close()

	opts := []forum.Option{forum.WithCache(ch, forum.DefaultTTL)}
	if key := os.Getenv(apiKeyEnv); key != "" {
		opts = append(opts, forum.WithAPIKey(key, remote.apiUser))
	}
	client, err := forum.NewClient(baseURL, opts...)
	if err != nil {
		return nil, err
	}

	sp := newSpinner(ctx, "Fetching "+client.BaseURL()+"...")
	sp.Start()
	ts, err := client.Latest(ctx, forum.ListOptions{
		Category: remote.category,
		Pages:    remote.pages,
		Refresh:  remote.refresh,
	})
	if err != nil {
		sp.StopWithError("Fetch failed")
		return nil, err
	}
	sp.Stop()
	return ts, topics.Normalize(ts)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// hostBase turns a forum URL into a file name stem.
func hostBase(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "topics"
	}
	return u.Hostname()
}
