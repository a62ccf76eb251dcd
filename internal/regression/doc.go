// Package regression fits a closed-form multivariate linear regression that
// predicts book units sold from publishing, rating and sales columns.
//
// # Stages
//
// The pipeline is strictly sequential:
//
//  1. Clean: trim keys and values, drop rows missing a required column
//  2. EnrichPublisherRatings: average Book_average_rating per publisher and
//     inject it as the derived Publisher_rating column
//  3. Shuffle: reorder rows with an injected random source (the input is
//     sorted by sales rank)
//  4. Extract: parse the five features and the target into a gonum matrix
//  5. Standardize: z-score every column with population statistics
//  6. Fit: solve the normal equations with an intercept column appended last
//  7. Evaluate: MSE, MAE, RMSE and R² of the in-sample predictions
//
// # Feature order
//
// The design matrix columns, and the fitted weights, follow FeatureColumn:
//
//	Publishing Year, Book_average_rating, gross sales, sale price, Publisher_rating
//
// The sixth coefficient is the intercept.
//
// # Errors
//
// Numeric parse failures return *ParseError naming the field and record.
// A non-invertible normal matrix returns *SingularMatrixError. Violated
// preconditions such as an empty dataset return *PreconditionError, and
// the metric functions panic with one when given misaligned vectors.
//
// # Usage
//
//	p := regression.NewPipeline(
//	    regression.WithLogger(logger),
//	    regression.WithRand(regression.NewRand(42)),
//	)
//	report, err := p.Run(ctx, records)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(report.Coefficients, report.Intercept, report.MSE, report.MAE)
package regression
