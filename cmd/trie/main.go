package main

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/Taraxa-project/taraxa-trie/main/api"
	"github.com/Taraxa-project/taraxa-trie/main/api/facade"
	"github.com/Taraxa-project/taraxa-trie/taraxa/trie"
	"github.com/Taraxa-project/taraxa-trie/taraxa/util/jsonutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

var (
	ConfigFlag = cli.StringFlag{
		Name:  "config",
		Usage: "JSON config file",
	}
	VerbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "log level: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value: 3,
	}
	InputFlag = cli.StringFlag{
		Name:  "input",
		Usage: "JSON file holding an array of {key, value} hex pairs",
	}
	DumpFlag = cli.StringFlag{
		Name:  "dump",
		Usage: "print the stored tree after commit: json or dot",
	}
	RequestFlag = cli.StringFlag{
		Name:  "request",
		Usage: "JSON request file, - for stdin",
	}
	AlgoFlag = cli.StringFlag{
		Name:  "algo",
		Usage: "one of blake2_512, blake2_256, blake2_128, twox_64, twox_128",
		Value: "blake2_256",
	}
)

func main() {
	if err := new_app().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func new_app() *cli.App {
	app := cli.NewApp()
	app.Name = "trie"
	app.Usage = "build and inspect content-addressed merkle tries"
	app.Flags = []cli.Flag{ConfigFlag, VerbosityFlag}
	app.Before = func(ctx *cli.Context) error {
		glogger := log.NewGlogHandler(log.StreamHandler(os.Stderr, log.TerminalFormat(false)))
		glogger.Verbosity(log.Lvl(ctx.GlobalInt(VerbosityFlag.Name)))
		log.Root().SetHandler(glogger)
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:   "build",
			Usage:  "insert key/value pairs, commit and print the root",
			Flags:  []cli.Flag{InputFlag, DumpFlag},
			Action: buildCmd,
		},
		{
			Name:   "run",
			Usage:  "execute a JSON request of trie operations",
			Flags:  []cli.Flag{RequestFlag},
			Action: runCmd,
		},
		{
			Name:      "hash",
			Usage:     "hash hex encoded data",
			ArgsUsage: "<hex>",
			Flags:     []cli.Flag{AlgoFlag},
			Action:    hashCmd,
		},
	}
	return app
}

func buildCmd(ctx *cli.Context) error {
	cfg, err := api.LoadConfig(ctx.GlobalString(ConfigFlag.Name))
	if err != nil {
		return err
	}
	var pairs []api.Pair
	if err := jsonutil.DecodeFile(ctx.String(InputFlag.Name), &pairs); err != nil {
		return err
	}
	tr := facade.New(cfg)
	for i, pair := range pairs {
		if !tr.Insert(pair.Key, pair.Value) {
			return errors.Errorf("insert of pair %d failed", i)
		}
	}
	if !tr.Commit() {
		return errors.New("commit failed")
	}
	log.Info("trie built", "pairs", len(pairs), "nodes", len(tr.Values()),
		"stored", trie.StoredNodes(), "dereferenced", trie.DereferencedNodes(), "cacheMisses", trie.CacheMisses())
	out := ctx.App.Writer
	fmt.Fprintln(out, "root: 0x"+hex.EncodeToString(tr.Root()))
	switch dump := ctx.String(DumpFlag.Name); dump {
	case "":
	case "json":
		fmt.Fprintln(out, string(jsonutil.MustEncodePretty(tr.DBValues())))
	case "dot":
		fmt.Fprintln(out, tr.DBValues().Dot().String())
	default:
		return errors.Errorf("unknown dump format %q", dump)
	}
	return nil
}

func runCmd(ctx *cli.Context) error {
	raw, err := readInput(ctx.String(RequestFlag.Name))
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, facade.RunJson(string(raw)))
	return nil
}

func hashCmd(ctx *cli.Context) error {
	algo := ctx.String(AlgoFlag.Name)
	fn, ok := facade.HashFunctions[algo]
	if !ok {
		return errors.Errorf("unknown hash algorithm %q", algo)
	}
	data, err := hex.DecodeString(strings.TrimPrefix(ctx.Args().First(), "0x"))
	if err != nil {
		return errors.Wrap(err, "decoding input")
	}
	fmt.Fprintln(ctx.App.Writer, "0x"+hex.EncodeToString(fn(data)))
	return nil
}

func readInput(file string) ([]byte, error) {
	switch file {
	case "":
		return nil, errors.New("no input file given")
	case "-":
		return ioutil.ReadAll(os.Stdin)
	}
	raw, err := ioutil.ReadFile(file)
	return raw, errors.Wrapf(err, "reading %s", file)
}
