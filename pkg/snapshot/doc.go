// Package snapshot exports store state to S3-compatible object storage.
//
//	client, err := snapshot.NewClient(ctx, snapshot.ClientConfig{
//	    Region: "us-east-1",
//	})
//	if err != nil {
//	    return err
//	}
//	sink := snapshot.NewS3Sink(client, "my-bucket", "snapshots/")
//	snap, err := sink.Save(ctx, st)
package snapshot
