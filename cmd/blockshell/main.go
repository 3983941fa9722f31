// blockshell is an interactive shell over a block file.
// Run from repo root: go run ./cmd/blockshell -dir ./data
package main

import (
	"BlockDB/config"
	"BlockDB/storage_engine/bufferpool"
	diskmanager "BlockDB/storage_engine/disk_manager"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
)

const helpText = `
blockshell - inspect and edit slotted blocks.

Usage:
  blockshell [-config file] [-dir path] [-block-size n] [-cache n] [-log-level lvl]
  blockshell [flags] -init-config file    - write the resolved config and exit

Commands:
  .help                   - Show this help message
  .stats                  - Show buffer pool statistics
  .flush                  - Flush dirty blocks to disk
  .exit                   - Exit the program

  NEW                     - Allocate and initialize a new block
  OPEN id                 - Open an existing block
  CLOSE                   - Release the current block
  LINK next prev          - Set chain links of the current block
  INSERT text             - Insert a record, prints its RID
  GET slot                - Print the record at slot
  UPDATE slot text        - Replace the record at slot
  DELETE slot             - Delete the record at slot
  SCAN                    - List all records in slot order
  SPACE                   - Show free space
  DUMP                    - Dump header and slot directory
`

var completer = readline.NewPrefixCompleter(
	readline.PcItem(".help"),
	readline.PcItem(".stats"),
	readline.PcItem(".flush"),
	readline.PcItem(".exit"),
	readline.PcItem("NEW"),
	readline.PcItem("OPEN"),
	readline.PcItem("CLOSE"),
	readline.PcItem("LINK"),
	readline.PcItem("INSERT"),
	readline.PcItem("GET"),
	readline.PcItem("UPDATE"),
	readline.PcItem("DELETE"),
	readline.PcItem("SCAN"),
	readline.PcItem("SPACE"),
	readline.PcItem("DUMP"),
)

func main() {
	cfg, initPath, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(2)
	}
	if initPath != "" {
		if err := writeInitConfig(cfg, initPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", initPath)
		return
	}

	log := cfg.NewLogger()

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating data dir: %s\n", err)
		os.Exit(1)
	}
	disk, err := diskmanager.Open(cfg.BlockFilePath(), cfg.BlockSize, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening block file: %s\n", err)
		os.Exit(1)
	}
	defer disk.Close()

	pool, err := bufferpool.NewBufferPool(cfg.CacheBlocks, disk, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating buffer pool: %s\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	log.Info("opened %s (%d blocks)", cfg.BlockFilePath(), disk.NumBlocks())
	runInteractive(newShell(disk, pool, os.Stdout))
}

// parseFlags builds the config from an optional file and command line overrides.
// The second result is the -init-config target, empty when not requested.
func parseFlags() (*config.Config, string, error) {
	configPath := flag.String("config", "", "JSON config file")
	initPath := flag.String("init-config", "", "write the resolved config to this file and exit")
	dir := flag.String("dir", "", "data directory (default ./data)")
	blockSize := flag.Int("block-size", 0, "block size in bytes")
	cache := flag.Int("cache", 0, "buffer pool capacity in blocks")
	logLevel := flag.String("log-level", "", "debug, info, warn, error or off")
	flag.Parse()

	cfg := config.NewDefaultConfig("data")
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			return nil, "", err
		}
		cfg = loaded
	}
	if *dir != "" {
		cfg.DataDir = *dir
	}
	if *blockSize != 0 {
		cfg.BlockSize = *blockSize
	}
	if *cache != 0 {
		cfg.CacheBlocks = *cache
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	return cfg, *initPath, cfg.Validate()
}

// writeInitConfig saves cfg as a starting config file. An existing file is
// left alone.
func writeInitConfig(cfg *config.Config, path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config %s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return cfg.SaveConfig(path)
}

// runInteractive starts the interactive CLI mode
func runInteractive(sh *shell) {
	fmt.Println("blockshell - enter .help for usage hints.")

	historyFile := filepath.Join(os.TempDir(), ".blockshell_history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "block> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing readline: %s\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	for {
		if sh.cur != nil {
			rl.SetPrompt(fmt.Sprintf("block[%s]> ", sh.cur.BlockID()))
		} else {
			rl.SetPrompt("block> ")
		}

		line, readErr := rl.Readline()
		if readErr != nil {
			if readErr == readline.ErrInterrupt {
				if len(line) == 0 {
					break
				}
				continue
			} else if readErr == io.EOF {
				break
			}
			fmt.Fprintf(os.Stderr, "Error reading input: %s\n", readErr)
			continue
		}

		if err := sh.exec(line); err != nil {
			if errors.Is(err, errQuit) {
				break
			}
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
	}

	if err := sh.release(); err != nil {
		fmt.Fprintf(os.Stderr, "Error releasing block: %s\n", err)
	}
	fmt.Println("Goodbye!")
}
