package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"childguard/backend/internal/apiclient"
	"childguard/backend/internal/device"
	"childguard/backend/internal/laws"
	"childguard/backend/internal/localization"
	"childguard/backend/internal/logging"
	"childguard/backend/internal/reportflow"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	draftPath   string
	fieldValues map[string]string
	libraryURIs []string
	cameraURIs  []string
	anonAbuser  bool
	anonVictim  bool
	latitude    float64
	longitude   float64
	autoApprove bool
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Fill in, review and send an incident report",
	Long: `Fill in, review and send an incident report.

Field values come from a YAML draft (--draft) and --set overrides, using the
wire names (abuserName, natureOfAbuse, victimAge, ...). When logged in, the
reporter phone is prefilled from your profile and the location from the
coordinates given with --lat/--lon. A position is required to send a report.`,
	Args: cobra.NoArgs,
	RunE: runSubmit,
}

func init() {
	f := submitCmd.Flags()
	f.StringVar(&draftPath, "draft", "", "YAML file with draft fields")
	f.StringToStringVar(&fieldValues, "set", nil, "field=value overrides")
	f.StringSliceVar(&libraryURIs, "evidence", nil, "evidence files picked from the library")
	f.StringSliceVar(&cameraURIs, "camera", nil, "evidence files captured with the camera")
	f.BoolVar(&anonAbuser, "anon-abuser", false, "hide the perpetrator's identity")
	f.BoolVar(&anonVictim, "anon-victim", false, "hide the victim's identity")
	f.Float64Var(&latitude, "lat", 0, "current latitude")
	f.Float64Var(&longitude, "lon", 0, "current longitude")
	f.BoolVarP(&autoApprove, "yes", "y", false, "approve the summary without prompting")
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return logging.New("debug")
	}
	return logging.New("error")
}

func loadDraft(path string) (reportflow.Draft, error) {
	var d reportflow.Draft
	if path == "" {
		return d, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return d, err
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("parsing %s: %w", path, err)
	}
	return d, nil
}

func absolute(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		out = append(out, p)
	}
	return out
}

// localizedGate swaps the fixed statements for the selected language.
func localizedGate(l *localization.Localizer, confirmer reportflow.Confirmer) *reportflow.Gate {
	gate := reportflow.NewGate(laws.Default(), confirmer)
	gate.Acknowledgements = []string{
		l.GetString(lang, localization.KeyAckGoodFaith),
		l.GetString(lang, localization.KeyAckConfidentiality),
		l.GetString(lang, localization.KeyAckFalseReport),
	}
	return gate
}

// promptConfirmer renders the summary and reads y/N from in.
func promptConfirmer(l *localization.Localizer, in io.Reader, out io.Writer, approve bool) reportflow.ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(ctx context.Context, s reportflow.Summary) (bool, error) {
		for i, st := range s.Statutes {
			if st.ID == "" && st.Description == laws.NoLawsFound {
				s.Statutes[i].Description = l.GetString(lang, localization.KeyNoLaws)
			}
		}
		fmt.Fprintln(out, renderSummary(s))
		if approve {
			return true, nil
		}

		fmt.Fprint(out, l.GetString(lang, localization.KeyConfirmPrompt))
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes", "oo":
			return true, nil
		default:
			return false, nil
		}
	}
}

func runSubmit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	l := localization.Default()

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	draft, err := loadDraft(draftPath)
	if err != nil {
		return err
	}

	client := apiclient.New(baseURL)
	var profile reportflow.ProfileSource
	var reporterName string
	if store, err := sessionStore(); err == nil {
		sess, err := store.Load()
		switch {
		case err == nil:
			client = client.WithToken(sess.Token)
			profile = reportflow.APIProfile{Client: client, Session: sess}
			reporterName = sess.Name
		case errors.Is(err, apiclient.ErrNoSession):
			logger.Debug("no stored session, submitting without profile")
		default:
			logger.Warn("reading session", zap.Error(err))
		}
	}

	locator := device.StaticLocator{Permission: device.Denied, Geocoder: client}
	if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
		locator.Permission = device.Granted
		locator.Position = &device.Position{Latitude: latitude, Longitude: longitude}
	}

	submitter := &reportflow.Submitter{
		Locator:      locator,
		Files:        device.LocalFiles{},
		Client:       client,
		ReporterName: reporterName,
		Logger:       logger,
	}
	gate := localizedGate(l, promptConfirmer(l, cmd.InOrStdin(), cmd.OutOrStdout(), autoApprove))
	picker := device.NewQueuePicker(absolute(libraryURIs), absolute(cameraURIs))
	ctrl := reportflow.NewController(picker, gate, submitter, logger)

	if profile != nil {
		if ignored := dropProfilePhone(&draft, fieldValues); ignored {
			fmt.Fprintln(cmd.ErrOrStderr(), "Note: reporterPhone comes from your profile; the value given was ignored.")
		}
	}

	draft.AbuserAnonymous = draft.AbuserAnonymous || anonAbuser
	draft.VictimAnonymous = draft.VictimAnonymous || anonVictim
	ctrl.Load(draft)

	keys := make([]string, 0, len(fieldValues))
	for k := range fieldValues {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := ctrl.SetField(reportflow.Field(k), fieldValues[k]); err != nil {
			return err
		}
	}

	if err := ctrl.Prefill(ctx, profile, locator); err != nil {
		logger.Warn("prefill incomplete", zap.Error(err))
	}

	if err := walkForm(ctx, ctrl); err != nil {
		return reportError(cmd, l, err)
	}

	outcome, err := ctrl.Submit(ctx)
	if err != nil {
		return reportError(cmd, l, err)
	}
	if outcome == reportflow.Cancelled {
		fmt.Fprintln(cmd.OutOrStdout(), l.GetString(lang, localization.KeyCancelled))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(reportflow.UserMessage(nil, l, lang)))
	return nil
}

// dropProfilePhone clears a reporter phone supplied by the draft file or
// --set when a logged-in profile will provide it. It reports whether
// anything was dropped.
func dropProfilePhone(d *reportflow.Draft, values map[string]string) bool {
	key := string(reportflow.FieldReporterPhone)
	_, inValues := values[key]
	dropped := d.ReporterPhone != "" || inValues
	d.ReporterPhone = ""
	delete(values, key)
	return dropped
}

// walkForm moves through the three steps, attaching queued evidence on the
// incident step.
func walkForm(ctx context.Context, ctrl *reportflow.Controller) error {
	ctrl.Advance()
	for _, source := range []reportflow.EvidenceSource{reportflow.FromLibrary, reportflow.FromCamera} {
		for {
			attached, err := ctrl.AttachEvidence(ctx, source)
			if err != nil {
				return err
			}
			if !attached {
				break
			}
		}
	}
	ctrl.Advance()
	return nil
}

// errReported marks a failure whose message was already shown.
var errReported = errors.New("report not sent")

func reportError(cmd *cobra.Command, l *localization.Localizer, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), errStyle.Render(reportflow.UserMessage(err, l, lang)))
	if verbose {
		fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	}
	return errReported
}
