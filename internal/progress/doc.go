// Package progress provides progress reporting for asset downloads.
//
// The bar counts visited assets (downloaded, skipped and failed alike) against
// a total fixed up front, and shows how many of them were new downloads.
//
// # Usage
//
//	reporter := progress.NewReporter(progress.Options{
//	    Total:  manifest.CountAssets(records, kinds),
//	    Output: os.Stderr,
//	})
//	defer reporter.Finish()
//
//	reporter.Downloaded() // after a new file was stored
//	reporter.Advance()    // after every asset
//
// # Output Format
//
//	Downloading assets (downloaded=12)  41% |████████          | (205/500)
package progress
