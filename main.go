package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"btdig-scraper/config"
	"btdig-scraper/crawler"
	"btdig-scraper/export"
	"btdig-scraper/fetcher"
	"btdig-scraper/filter"
	"btdig-scraper/models"
	"btdig-scraper/sheets"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

func main() {
	query := flag.String("query", "", "Search query (optional, if not provided, runs as Telegram bot)")
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	startPage := flag.Int("start", 0, "First page to crawl (overrides config when > 0)")
	endPage := flag.Int("end", -1, "Last page to crawl, 0 = unbounded (overrides config when >= 0)")
	maxPages := flag.Int("pages", -1, "Maximum number of pages to crawl, 0 = unbounded (overrides config when >= 0)")
	delayMs := flag.Int("delay", -1, "Delay between requests in milliseconds (overrides config when >= 0)")
	outPath := flag.String("out", "results.md", "Path of the exported Markdown document")
	engine := flag.String("engine", "http", "Fetch engine: http or colly")
	spreadsheetURL := flag.String("spreadsheet", "", "Google Sheets URL to export results to (optional)")
	credentialsPath := flag.String("credentials", "", "Path to Google service account credentials JSON file (or use GOOGLE_SHEETS_CREDENTIALS env var)")
	flag.Parse()

	logrus.SetLevel(logrus.InfoLevel)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg := loadConfig(*configPath)

	// Command line flags override config values
	if *startPage > 0 {
		cfg.Crawl.StartPage = *startPage
	}
	if *endPage >= 0 {
		cfg.Crawl.EndPage = *endPage
	}
	if *maxPages >= 0 {
		cfg.Crawl.MaxPages = *maxPages
	}
	if *delayMs >= 0 {
		cfg.Crawl.DelayMs = *delayMs
	}

	// If a query is provided, run in CLI mode
	if *query != "" {
		runCLIMode(*query, cfg, *engine, *outPath, *spreadsheetURL, *credentialsPath)
		return
	}

	// Otherwise, run as Telegram bot
	runTelegramBot(cfg, *engine, *spreadsheetURL, *credentialsPath)
}

// loadConfig loads configuration from file or returns defaults
func loadConfig(configPath string) *config.Config {
	if _, err := os.Stat(configPath); err == nil {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			logrus.Warnf("Failed to load config file: %v. Using defaults.", err)
			return config.GetDefaultConfig()
		}
		return cfg
	}
	logrus.Info("Config file not found. Using default configuration.")
	return config.GetDefaultConfig()
}

// newFetcher selects a fetch engine by name
func newFetcher(engine string) fetcher.Fetcher {
	switch engine {
	case "colly":
		return fetcher.NewCollyFetcher()
	default:
		return fetcher.NewHTTPFetcher()
	}
}

// crawlRecords performs the crawl and filtering logic.
// Returns the filtered records, all records, and the crawl result.
func crawlRecords(query string, cfg *config.Config, engine string) ([]models.Record, crawler.Result) {
	c := crawler.NewCrawler(newFetcher(engine))
	c.OnProgress = func(p crawler.Progress) {
		if p.Percent >= 0 {
			logrus.Infof("Page %d done, %d records so far (%.0f%%)", p.Page, p.RecordsSoFar, p.Percent)
		} else {
			logrus.Infof("Page %d done, %d records so far", p.Page, p.RecordsSoFar)
		}
	}

	result := c.Crawl(context.Background(), query, crawler.Options{
		StartPage: cfg.Crawl.StartPage,
		EndPage:   cfg.Crawl.EndPage,
		MaxPages:  cfg.Crawl.MaxPages,
		Delay:     time.Duration(cfg.Crawl.DelayMs) * time.Millisecond,
	})

	filtered := filter.NewFilter(cfg).ApplyFilters(result.Records)
	return filtered, result
}

// runCLIMode runs the scraper in CLI mode
func runCLIMode(query string, cfg *config.Config, engine, outPath, spreadsheetURL, credentialsPath string) {
	filtered, result := crawlRecords(query, cfg, engine)

	reportStop(result)

	fmt.Printf("Found %d records before filtering\n", len(result.Records))
	fmt.Printf("Found %d records after filtering\n", len(filtered))
	fmt.Println("---")

	if len(filtered) == 0 {
		fmt.Println("No records match the filter criteria.")
		return
	}

	formatRecordsConsole(filtered)

	if err := export.WriteMarkdown(filtered, outPath); err != nil {
		logrus.Errorf("Failed to export results: %v", err)
	} else {
		fmt.Printf("\nExported %d records to %s\n", len(filtered), outPath)
	}

	if spreadsheetURL != "" {
		writeToSheets(filtered, query, spreadsheetURL, credentialsPath)
	}
}

// reportStop logs non-nominal stop reasons so "was blocked" is
// distinguishable from "ran out of pages"
func reportStop(result crawler.Result) {
	switch result.StopReason {
	case models.StoppedByChallenge:
		logrus.Warn("Crawl was blocked by a challenge page, results may be incomplete")
	case models.StoppedByFetchError:
		logrus.Warnf("Crawl aborted by fetch error: %v", result.Err)
	default:
		logrus.Infof("Crawl finished: %s (%d pages fetched)", result.StopReason, result.PagesFetched)
	}
}

// writeToSheets exports records to a new sheet in the given spreadsheet
func writeToSheets(records []models.Record, query, spreadsheetURL, credentialsPath string) {
	spreadsheetID := sheets.ExtractSpreadsheetID(spreadsheetURL)
	if spreadsheetID == "" {
		logrus.Warnf("Could not extract spreadsheet ID from URL: %s", spreadsheetURL)
		return
	}

	writer, err := sheets.NewWriter(spreadsheetID, credentialsPath)
	if err != nil {
		logrus.Warnf("Failed to initialize Google Sheets writer: %v", err)
		return
	}

	sheetName := fmt.Sprintf("CLI_%s", time.Now().Format("20060102_150405"))
	if _, _, err := writer.CreateSheetAndWriteRecords(sheetName, records, query); err != nil {
		logrus.Warnf("Failed to write to Google Sheets: %v", err)
	} else {
		fmt.Printf("Wrote %d records to Google Sheets\n", len(records))
	}
}

// formatRecordsConsole formats records for console output
func formatRecordsConsole(records []models.Record) {
	fmt.Println("Records:")
	fmt.Println("========")
	for i, record := range records {
		fmt.Printf("\n%d. %s\n", i+1, record.Name)
		if record.MagnetLink != "" {
			fmt.Printf("   Magnet: %s\n", record.MagnetLink)
		} else {
			fmt.Printf("   Magnet: not found\n")
		}
		fmt.Printf("   Page: %d\n", record.PageNumber)
	}
}

// runTelegramBot runs the scraper as a Telegram bot: every incoming
// message is treated as a search query and answered with a summary plus
// the exported Markdown document.
func runTelegramBot(cfg *config.Config, engine, spreadsheetURL, credentialsPath string) {
	botToken := os.Getenv("BTDIG_KEY_TG")
	if botToken == "" {
		logrus.Fatal("Error: BTDIG_KEY_TG environment variable is not set")
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		logrus.Fatalf("Failed to initialize bot: %v", err)
	}

	logrus.Infof("Authorized on account %s", bot.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updateConfig.Offset = -1 // skip updates that arrived while offline

	updates := bot.GetUpdatesChan(updateConfig)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		chatID := update.Message.Chat.ID

		if update.Message.IsCommand() {
			switch update.Message.Command() {
			case "start":
				bot.Send(tgbotapi.NewMessage(chatID, "Welcome! Send me a search query and I'll crawl btdig.com for magnet links."))
			case "help":
				helpText := "Commands:\n/start - Start the bot\n/help - Show this help\n\nJust send me a search query! You'll get the results back as a Markdown document."
				bot.Send(tgbotapi.NewMessage(chatID, helpText))
			default:
				bot.Send(tgbotapi.NewMessage(chatID, "Unknown command. Use /help for available commands."))
			}
			continue
		}

		query := strings.TrimSpace(update.Message.Text)
		if query == "" {
			bot.Send(tgbotapi.NewMessage(chatID, "Please send me a search query."))
			continue
		}

		bot.Send(tgbotapi.NewMessage(chatID, fmt.Sprintf("🔍 Crawling results for %q...", query)))

		filtered, result := crawlRecords(query, cfg, engine)
		reportStop(result)

		summary := formatRecordsTelegram(filtered, result)
		for _, part := range splitMessage(summary, 4000) {
			bot.Send(tgbotapi.NewMessage(chatID, part))
		}

		if len(filtered) > 0 {
			doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
				Name:  "results.md",
				Bytes: []byte(export.FormatMarkdown(filtered)),
			})
			if _, err := bot.Send(doc); err != nil {
				logrus.Errorf("Failed to send document: %v", err)
			}

			if spreadsheetURL != "" {
				writeToSheets(filtered, query, spreadsheetURL, credentialsPath)
			}
		}
	}
}

// formatRecordsTelegram formats crawl results for a Telegram message
func formatRecordsTelegram(records []models.Record, result crawler.Result) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Fetched %d pages, found %d records\n", result.PagesFetched, len(records)))
	if !result.StopReason.IsNominal() {
		sb.WriteString(fmt.Sprintf("⚠️ Stopped early: %s\n", result.StopReason))
	}
	sb.WriteString("\n")

	if len(records) == 0 {
		sb.WriteString("No records found.")
		return sb.String()
	}

	for i, record := range records {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, record.Name))
		if record.MagnetLink != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", record.MagnetLink))
		} else {
			sb.WriteString("   (magnet not found)\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// splitMessage splits a message into chunks of specified size
func splitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	lines := strings.Split(text, "\n")
	var current strings.Builder

	for _, line := range lines {
		if current.Len()+len(line)+1 > maxLen {
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
			// If a single line is too long, split it
			for len(line) > maxLen {
				parts = append(parts, line[:maxLen])
				line = line[maxLen:]
			}
		}
		if len(line) > 0 {
			current.WriteString(line)
			current.WriteString("\n")
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}
