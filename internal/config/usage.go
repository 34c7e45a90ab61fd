package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/agbru/lfsrscan/internal/ui"
)

// setCustomUsage installs the coloured help text shown for -h.
func setCustomUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		// The theme is not initialised yet when flags fail to parse.
		t := ui.GetCurrentTheme()
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			t = ui.NoColorTheme
		}

		out := fs.Output()
		fmt.Fprintf(out, "\n%sLFSR Cycle Scanner%s\n", t.Bold, t.Reset)
		fmt.Fprintf(out, "Enumerates every cycle of a Fibonacci linear feedback shift register.\n\n")
		fmt.Fprintf(out, "%sUsage:%s\n  %s [flags] <polynomial>\n  %s -server [flags]\n\n%sFlags:%s\n",
			t.Warning, t.Reset, fs.Name(), fs.Name(), t.Warning, t.Reset)

		fs.VisitAll(func(f *flag.Flag) {
			name, usage := flag.UnquoteUsage(f)
			sig := "-" + f.Name
			if name != "" {
				sig += " " + name
			}
			fmt.Fprintf(out, "  %s%-22s%s %s", t.Primary, sig, t.Reset, usage)
			if f.DefValue != "" && f.DefValue != "0" && f.DefValue != "false" {
				fmt.Fprintf(out, " %s(default %s)%s", t.Secondary, f.DefValue, t.Reset)
			}
			fmt.Fprintln(out)
		})
		fmt.Fprintf(out, "\nEvery flag can also be set through a %s* environment variable,\n", EnvPrefix)
		fmt.Fprintf(out, "e.g. %sWORKERS=4. Flags take precedence.\n\n", EnvPrefix)
	}
}
