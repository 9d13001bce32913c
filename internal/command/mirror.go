// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/apex/log"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/urfave/cli/v3"

	"github.com/staranto/dsctlgo/dataset"
	"github.com/staranto/dsctlgo/datasets"
	awsx "github.com/staranto/dsctlgo/internal/aws"
	"github.com/staranto/dsctlgo/internal/meta"
)

// objectPutter is the slice of the S3 client mirror needs.
type objectPutter interface {
	PutObject(ctx context.Context, in *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
}

func mirrorCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)

	bucket := cmd.String("bucket")
	if bucket == "" {
		bucket = m.Config.Mirror.Bucket
	}
	if bucket == "" {
		return fmt.Errorf("no mirror bucket configured; set mirror.bucket or pass --bucket")
	}

	prefix := cmd.String("prefix")
	if prefix == "" {
		prefix = m.Config.Mirror.Prefix
	}

	awsCfg, err := awsx.LoadAWSConfig(ctx, awsx.WithRegion(m.Config.Mirror.Region))
	if err != nil {
		return err
	}

	return runMirror(ctx, awsx.NewS3(awsCfg), m, bucket, prefix)
}

// runMirror uploads every artifact present under the output directory.
// Datasets that have not been pulled are skipped, not treated as errors.
func runMirror(ctx context.Context, client objectPutter, m meta.Meta, bucket, prefix string) error {
	for _, p := range datasets.All() {
		artifact := dataset.ArtifactPath(m.Config.OutputDir, p.Name)

		f, err := os.Open(artifact)
		if err != nil {
			if os.IsNotExist(err) {
				log.Debugf("mirror: no artifact for %s, skipping", p.Name)
				continue
			}
			return err
		}

		key := mirrorKey(prefix, p.Name)
		_, err = client.PutObject(ctx, &s3v2.PutObjectInput{
			Bucket: &bucket,
			Key:    &key,
			Body:   f,
		})
		f.Close()
		if err != nil {
			return fmt.Errorf("mirror %s to s3://%s/%s: %w", p.Name, bucket, key, err)
		}
		log.Debugf("mirrored %s to s3://%s/%s", p.Name, bucket, key)
	}

	return nil
}

// mirrorKey builds the object key for a dataset artifact. The key uses
// the same basename the loader expects, so a bucket sync back into the
// output directory round-trips.
func mirrorKey(prefix, name string) string {
	return path.Join(prefix, filepath.Base(dataset.ArtifactPath("", name)))
}

// MirrorCommandBuilder constructs the cli.Command for "mirror".
func MirrorCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "mirror",
		Usage:     "upload pulled artifacts to an S3 bucket",
		UsageText: "dsctl mirror [--bucket BUCKET] [--prefix PREFIX]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "bucket",
				Usage: "destination bucket (overrides mirror.bucket)",
			},
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "key prefix (overrides mirror.prefix)",
			},
		},
		Action: mirrorCommandAction,
	}
}
