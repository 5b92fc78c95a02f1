package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/internal/cache"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/internal/config"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/internal/quote"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/frequency"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/loans"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/output"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/validation"
	"go.uber.org/zap"
)

type quoteFlags struct {
	companyID    string
	amount       float64
	rate         float64
	frequency    string
	outputFormat string
}

func (f *quoteFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.companyID, "company", "c", "", "company ID to quote for (uses the configured company store)")
	cmd.Flags().Float64VarP(&f.amount, "amount", "a", 0, "requested loan amount")
	cmd.Flags().Float64VarP(&f.rate, "rate", "r", 0, "annual interest rate in percent (ignored with --company)")
	cmd.Flags().StringVarP(&f.frequency, "frequency", "f", "", "payment frequency (weekly, biweekly, fortnightly, decenal, monthly)")
	cmd.Flags().StringVarP(&f.outputFormat, "output-format", "o", "", "output format (pretty, csv, json)")
}

// format returns the flag value, falling back to the configured format.
func (f *quoteFlags) format(conf *config.Configuration) (string, error) {
	if f.outputFormat == "" {
		return conf.Output.Format, nil
	}
	if err := validation.ValidateOutputFormat(f.outputFormat); err != nil {
		return "", err
	}
	return f.outputFormat, nil
}

func (f *quoteFlags) terms() (loans.LoanTerms, error) {
	if err := validation.ValidateAmount(f.amount); err != nil {
		return loans.LoanTerms{}, err
	}
	terms := loans.LoanTerms{
		Principal:          f.amount,
		AnnualInterestRate: f.rate,
		PaymentFrequency:   frequency.Resolve(f.frequency),
	}
	return terms, terms.Validate()
}

func newQuoteCmd(opts *rootOptions) *cobra.Command {
	flags := &quoteFlags{}

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote every offered term for an amount",
		Example: `  fincentiva quote --amount 10000 --rate 36 --frequency monthly
  fincentiva quote --company acme --amount 8000 -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, err := opts.setup()
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			outputFormat, err := flags.format(conf)
			if err != nil {
				return err
			}

			if flags.companyID == "" {
				terms, err := flags.terms()
				if err != nil {
					return err
				}
				plans := loans.NewPlanBuilder(logger).BuildPlans(terms)
				return output.Plans(cmd.OutOrStdout(), outputFormat, plans)
			}

			svc, closeStore, err := newCLIService(cmd, conf, logger)
			if err != nil {
				return err
			}
			defer func() {
				_ = closeStore()
			}()

			result, err := svc.Calculate(cmd.Context(), quote.Request{
				CompanyID:        flags.companyID,
				Amount:           flags.amount,
				PaymentFrequency: flags.frequency,
			})
			if err != nil {
				return err
			}
			return output.Plans(cmd.OutOrStdout(), outputFormat, result.Plans)
		},
	}
	flags.register(cmd)
	return cmd
}

func newScheduleCmd(opts *rootOptions) *cobra.Command {
	flags := &quoteFlags{}
	var periods int

	cmd := &cobra.Command{
		Use:     "schedule",
		Short:   "Print the amortization schedule for one term",
		Example: `  fincentiva schedule --amount 10000 --rate 36 --periods 12`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, err := opts.setup()
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			outputFormat, err := flags.format(conf)
			if err != nil {
				return err
			}

			if flags.companyID == "" {
				terms, err := flags.terms()
				if err != nil {
					return err
				}
				if err := validation.ValidateTerm(periods, terms.PaymentFrequency); err != nil {
					return err
				}
				plan := loans.NewPlanBuilder(logger).BuildPlan(terms, periods)
				schedule := loans.GenerateSchedule(terms.Principal,
					loans.PeriodicRate(terms.AnnualInterestRate, terms.PaymentFrequency), periods, plan.PaymentPerPeriod)
				return output.Schedule(cmd.OutOrStdout(), outputFormat, schedule)
			}

			svc, closeStore, err := newCLIService(cmd, conf, logger)
			if err != nil {
				return err
			}
			defer func() {
				_ = closeStore()
			}()

			result, err := svc.Schedule(cmd.Context(), quote.ScheduleRequest{
				CompanyID:        flags.companyID,
				Amount:           flags.amount,
				Periods:          periods,
				PaymentFrequency: flags.frequency,
			})
			if err != nil {
				return err
			}
			return output.Schedule(cmd.OutOrStdout(), outputFormat, result.Schedule)
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&periods, "periods", "p", 0, "number of payment periods")
	return cmd
}

// newCLIService builds a quote service over the configured company store.
// One-shot commands skip the plan cache.
func newCLIService(cmd *cobra.Command, conf *config.Configuration, logger *zap.Logger) (*quote.Service, func() error, error) {
	store, closeStore, err := buildStore(cmd.Context(), conf, logger)
	if err != nil {
		return nil, nil, err
	}
	if store == nil {
		return nil, nil, errors.New("no company store configured")
	}
	logger.Debug("quoting against company store",
		zap.String("op", "main.newCLIService"),
		zap.String("store", fmt.Sprintf("%T", store)),
	)
	return quote.NewService(store, cache.Noop{}, nil, logger), closeStore, nil
}
