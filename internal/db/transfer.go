package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vriveraPeersyst/xrplevm-faucet/internal/db/model"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/types"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/utils"
)

// The write-path filters and updates are plain builders so their invariants
// can be exercised without a live database. Each update filter includes its
// own target state, which is what makes a repeated write with identical
// arguments a no-op rather than an error.

func ambiguousTransferFilter(destinationAddress, amount string) bson.M {
	activeStates := []types.TransferState{types.Pending, types.Settled, types.Watching}
	return bson.M{
		"destination_address": destinationAddress,
		"amount":              amount,
		"state":               bson.M{"$in": activeStates},
	}
}

func settlementFilter(sourceTxHash string) bson.M {
	return bson.M{
		"_id":   sourceTxHash,
		"state": bson.M{"$in": utils.QualifiedStatesToSettled()},
	}
}

func settlementUpdate(settledAt time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"source_settled_at": settledAt,
		"state":             types.Settled,
	}}
}

func arrivalFilter(sourceTxHash string) bson.M {
	return bson.M{
		"_id":   sourceTxHash,
		"state": bson.M{"$in": utils.QualifiedStatesToArrived()},
	}
}

func arrivalUpdate(destinationTxHash string, arrivedAt time.Time, bridgingDurationMs int64) bson.M {
	return bson.M{"$set": bson.M{
		"destination_tx_hash":    destinationTxHash,
		"destination_arrived_at": arrivedAt,
		"bridging_duration_ms":   bridgingDurationMs,
		"state":                  types.Arrived,
	}}
}

func transitionUpdate(newState types.TransferState, sourceResultCode string) bson.M {
	set := bson.M{"state": newState}
	if sourceResultCode != "" {
		set["source_result_code"] = sourceResultCode
	}
	return bson.M{"$set": set}
}

// CreateTransfer inserts the record for a freshly submitted source transaction.
// It returns a DuplicateKeyError if the source tx hash is already registered and
// an AmbiguousTransferError if another non-terminal transfer targets the same
// destination address with an identical amount, since the arrival matcher would
// not be able to tell the two apart.
func (db *Database) CreateTransfer(
	ctx context.Context, sourceTxHash, destinationAddress, amount string, submittedAt time.Time,
) error {
	client := db.Client.Database(db.DbName).Collection(model.TransferCollection)

	count, err := client.CountDocuments(ctx, ambiguousTransferFilter(destinationAddress, amount))
	if err != nil {
		return err
	}
	if count > 0 {
		return &AmbiguousTransferError{
			DestinationAddress: destinationAddress,
			Amount:             amount,
			Message:            "A transfer with the same destination address and amount is already in flight",
		}
	}

	document := model.TransferDocument{
		SourceTxHash:       sourceTxHash, // Primary key of db collection
		DestinationAddress: destinationAddress,
		Amount:             amount,
		State:              types.Pending,
		SourceSubmittedAt:  submittedAt,
	}
	_, err = client.InsertOne(ctx, document)
	if err != nil {
		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) {
			for _, e := range writeErr.WriteErrors {
				if mongo.IsDuplicateKeyError(e) {
					// Return the custom error type so that we can return 4xx errors to client
					return &DuplicateKeyError{
						Key:     sourceTxHash,
						Message: "Transfer already exists",
					}
				}
			}
		}
		return err
	}
	return nil
}

// UpdateTransferSettlement records the ledger-reported close time once the
// source transaction settles. The write is row-scoped and idempotent: only
// the settlement poller writes these fields, and a repeated call with the
// same arguments matches the already-settled document and re-sets the same
// values.
func (db *Database) UpdateTransferSettlement(ctx context.Context, sourceTxHash string, settledAt time.Time) error {
	client := db.Client.Database(db.DbName).Collection(model.TransferCollection)
	result, err := client.UpdateOne(ctx, settlementFilter(sourceTxHash), settlementUpdate(settledAt))
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return &NotFoundError{
			Key:     sourceTxHash,
			Message: "Transfer not found or not in eligible state for settlement",
		}
	}
	return nil
}

// UpdateTransferArrival records the matched destination transfer. Row-scoped
// and idempotent in the same way as UpdateTransferSettlement; only the
// arrival matcher writes these fields.
func (db *Database) UpdateTransferArrival(
	ctx context.Context, sourceTxHash, destinationTxHash string, arrivedAt time.Time, bridgingDurationMs int64,
) error {
	client := db.Client.Database(db.DbName).Collection(model.TransferCollection)
	result, err := client.UpdateOne(
		ctx, arrivalFilter(sourceTxHash), arrivalUpdate(destinationTxHash, arrivedAt, bridgingDurationMs),
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return &NotFoundError{
			Key:     sourceTxHash,
			Message: "Transfer not found or not in eligible state for arrival",
		}
	}
	return nil
}

// TransitionTransferState updates the state of a transfer to a new state.
// The eligible-previous-states filter keeps the walk monotonic: a document
// already past the requested transition is left untouched rather than
// reverted. sourceResultCode is persisted alongside failure transitions.
func (db *Database) TransitionTransferState(
	ctx context.Context, sourceTxHash string, newState types.TransferState,
	eligiblePreviousStates []types.TransferState, sourceResultCode string,
) error {
	client := db.Client.Database(db.DbName).Collection(model.TransferCollection)
	filter := bson.M{"_id": sourceTxHash, "state": bson.M{"$in": eligiblePreviousStates}}
	result, err := client.UpdateOne(ctx, filter, transitionUpdate(newState, sourceResultCode))
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return &NotFoundError{
			Key:     sourceTxHash,
			Message: "Transfer not found or not in eligible state to transition",
		}
	}
	return nil
}

func (db *Database) FindTransferByTxHash(ctx context.Context, sourceTxHash string) (*model.TransferDocument, error) {
	client := db.Client.Database(db.DbName).Collection(model.TransferCollection)
	filter := bson.M{"_id": sourceTxHash}
	var transfer model.TransferDocument
	err := client.FindOne(ctx, filter).Decode(&transfer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     sourceTxHash,
				Message: "Transfer not found",
			}
		}
		return nil, err
	}
	return &transfer, nil
}

func (db *Database) FindTransfersByDestinationAddress(
	ctx context.Context, destinationAddress string, paginationToken string,
) (*DbResultMap[model.TransferDocument], error) {
	client := db.Client.Database(db.DbName).Collection(model.TransferCollection)

	filter := bson.M{"destination_address": destinationAddress}
	opts := options.Find().SetSort(bson.M{"source_submitted_at": -1}) // Sorting in descending order

	opts.SetLimit(db.cfg.MaxPaginationLimit)
	// Decode the pagination token first if it exist
	if paginationToken != "" {
		decodedToken, err := model.DecodeTransferByAddressPaginationToken(paginationToken)
		if err != nil {
			return nil, &InvalidPaginationTokenError{
				Message: "Invalid pagination token",
			}
		}
		filter = bson.M{
			"destination_address": destinationAddress,
			"$or": []bson.M{
				{"source_submitted_at": bson.M{"$lt": decodedToken.SourceSubmittedAt}},
				{"source_submitted_at": decodedToken.SourceSubmittedAt, "_id": bson.M{"$gt": decodedToken.SourceTxHash}},
			},
		}
	}

	cursor, err := client.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var transfers []model.TransferDocument
	if err = cursor.All(ctx, &transfers); err != nil {
		return nil, err
	}

	return toResultMapWithPaginationToken(db.cfg, transfers, model.BuildTransferByAddressPaginationToken)
}

func (db *Database) CountTransfersByDestinationAddress(ctx context.Context, destinationAddress string) (int64, error) {
	client := db.Client.Database(db.DbName).Collection(model.TransferCollection)
	return client.CountDocuments(ctx, bson.M{"destination_address": destinationAddress})
}
