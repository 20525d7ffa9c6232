package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/winnerumukoro/youtube-summarizer/internal/config"
	"github.com/winnerumukoro/youtube-summarizer/internal/llm"
	"github.com/winnerumukoro/youtube-summarizer/internal/summarizer"
	"github.com/winnerumukoro/youtube-summarizer/internal/youtube"
)

func main() {
	var (
		url        = flag.String("url", "", "YouTube video URL")
		lang       = flag.String("lang", "", "Caption language code (default: from config, en)")
		format     = flag.String("format", "text", "Output format: text, json, srt, vtt, stats")
		summarize  = flag.Bool("summarize", false, "Print an AI summary of the transcript")
		question   = flag.String("ask", "", "Ask a question about the video")
		outputFile = flag.String("o", "", "Output file (default: stdout)")
		showInfo   = flag.Bool("info", false, "Show video info only")
		listLangs  = flag.Bool("list", false, "List available captions")
		verbose    = flag.Bool("v", false, "Verbose output")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -url https://www.youtube.com/watch?v=xxx\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -url https://youtu.be/xxx -format srt -o output.srt\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -url https://youtu.be/xxx -summarize\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -url https://youtu.be/xxx -ask \"What is the main argument?\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -url https://youtu.be/xxx -list\n", os.Args[0])
	}

	flag.Parse()

	if *url == "" {
		fmt.Fprintf(os.Stderr, "Error: YouTube URL is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	validFormats := map[string]bool{"text": true, "json": true, "srt": true, "vtt": true, "stats": true}
	if !validFormats[*format] {
		fmt.Fprintf(os.Stderr, "Error: Invalid format '%s'. Must be: text, json, srt, vtt, or stats\n", *format)
		os.Exit(1)
	}

	videoID, ok := youtube.ExtractVideoID(*url)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: Invalid YouTube URL. Please check and try again.\n")
		os.Exit(1)
	}

	cfg, err := config.Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *lang != "" {
		cfg.Transcript.Language = *lang
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *showInfo || *listLangs {
		client := youtube.NewClient(nil)
		video, err := client.GetVideo(ctx, youtube.WatchURL(videoID))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to get video: %v\n", err)
			os.Exit(1)
		}
		printVideoInfo(video)
		if *listLangs {
			printCaptionList(video)
		}
		return
	}

	var source youtube.MetadataSource = youtube.NewClient(nil)
	if cfg.Transcript.Source == config.SourceYtDlp {
		source = youtube.NewYtDlpSource(cfg.Transcript.YtDlpPath)
	}
	fetcher := youtube.NewFetcher(source,
		youtube.WithLanguage(cfg.Transcript.Language),
		youtube.WithLogger(logger),
	)

	if *verbose {
		fmt.Fprintf(os.Stderr, "Fetching captions for %s (lang: %s)...\n", videoID, cfg.Transcript.Language)
	}

	result, err := fetcher.FetchCaptions(ctx, videoID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Could not fetch transcript: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "Fetched %d caption entries (%s, %s)\n", len(result.Entries), result.LanguageCode, result.Kind)
	}

	var output string
	if *summarize || *question != "" {
		output, err = generate(ctx, cfg, logger, result.Text(), *summarize, *question)
	} else {
		output, err = formatResult(result, *format, cfg.Transcript.WordsPerMinute)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to write output file: %v\n", err)
			os.Exit(1)
		}
		if *verbose {
			fmt.Fprintf(os.Stderr, "Output written to: %s\n", *outputFile)
		}
	} else {
		fmt.Println(output)
	}
}

func formatResult(result *youtube.CaptionResult, format string, wpm int) (string, error) {
	switch format {
	case "json":
		out, err := result.FormatAsJSON()
		if err != nil {
			return "", fmt.Errorf("failed to format JSON: %w", err)
		}
		return out, nil
	case "srt":
		return result.FormatAsSRT(), nil
	case "vtt":
		return result.FormatAsVTT(), nil
	case "stats":
		stats := summarizer.ComputeStatsAt(result.Text(), wpm)
		return fmt.Sprintf("Words:        %s\nReading time: ~%d min", humanize.Comma(int64(stats.WordCount)), stats.ReadingTime), nil
	default:
		return result.FormatAsText(), nil
	}
}

func generate(ctx context.Context, cfg *config.Config, logger *slog.Logger, transcript string, summarize bool, question string) (string, error) {
	if cfg.LLM.APIKey == "" {
		return "", fmt.Errorf("GROQ_API_KEY is required for -summarize and -ask")
	}
	opts := []llm.Option{llm.WithBaseURL(cfg.LLM.BaseURL)}
	if cfg.LLM.Timeout > 0 {
		opts = append(opts, llm.WithTimeout(cfg.LLM.Timeout))
	}
	client, err := llm.New(cfg.LLM.APIKey, cfg.LLM.Model, opts...)
	if err != nil {
		return "", err
	}
	sum := summarizer.New(client, cfg.SummarizerOptions(), logger)

	var parts []string
	if summarize {
		summary, err := sum.Summarize(ctx, transcript)
		if err != nil {
			return "", err
		}
		parts = append(parts, summary)
	}
	if question != "" {
		answer, err := sum.Answer(ctx, transcript, question)
		if err != nil {
			return "", err
		}
		parts = append(parts, answer)
	}
	return strings.Join(parts, "\n\n"), nil
}

func printVideoInfo(video *youtube.VideoInfo) {
	fmt.Println("=== Video Info ===")
	fmt.Printf("Title:    %s\n", video.Title)
	fmt.Printf("Author:   %s\n", video.Author)
	fmt.Printf("Duration: %s\n", video.Duration)
	fmt.Printf("ID:       %s\n", video.ID)
}

func printCaptionList(video *youtube.VideoInfo) {
	fmt.Println("\n=== Available Captions ===")
	if len(video.Captions) == 0 {
		fmt.Println("No captions available")
		return
	}
	for i, caption := range video.Captions {
		kind := "manual"
		if caption.Automatic {
			kind = "automatic"
		}
		fmt.Printf("%d. %s (%s, %s)\n", i+1, caption.LanguageCode, caption.Name, kind)
	}
}
