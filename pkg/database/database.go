package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/DiscordNova/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoBackend stores each collection in a MongoDB collection of the same
// name, one document per record with the record key as _id. While the server
// is unreachable the latest snapshot of each collection is queued and synced
// on reconnect.
type MongoBackend struct {
	client          *mongo.Client
	db              *mongo.Database
	isConnected     bool
	pending         map[string][]Document
	reconnectTicker *time.Ticker
	stopReconnect   chan struct{}
	mu              sync.RWMutex
	queueMu         sync.Mutex
}

// NewMongoBackend creates a disconnected backend.
func NewMongoBackend() *MongoBackend {
	return &MongoBackend{
		pending:       make(map[string][]Document),
		stopReconnect: make(chan struct{}),
	}
}

// Connect establishes a connection to MongoDB
func (d *MongoBackend) Connect(mongoURL, dbName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isConnected {
		return nil
	}

	logger.System("Intentando conectar a la base de datos...", "DB")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(mongoURL).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		logger.Critical("Fallo al conectar con la base de datos.", "DB")
		d.startReconnect(mongoURL, dbName)
		return err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Critical("Fallo al verificar conexión con la base de datos.", "DB")
		_ = client.Disconnect(ctx)
		d.startReconnect(mongoURL, dbName)
		return err
	}

	d.client = client
	d.db = client.Database(dbName)
	d.isConnected = true

	logger.Success("Conectado exitosamente a la base de datos.", "DB")

	if d.reconnectTicker != nil {
		d.reconnectTicker.Stop()
		d.reconnectTicker = nil
	}

	go d.syncOfflineWrites()

	return nil
}

// startReconnect starts the reconnection loop once. Callers hold d.mu.
func (d *MongoBackend) startReconnect(mongoURL, dbName string) {
	if d.isConnected {
		d.isConnected = false
		logger.Warn("Se perdió la conexión con la base de datos. Activando modo offline.", "DB")
	}
	if d.reconnectTicker != nil {
		return
	}

	ticker := time.NewTicker(15 * time.Second)
	d.reconnectTicker = ticker
	go func() {
		for {
			select {
			case <-ticker.C:
				logger.Info("Intentando reconectar a la base de datos...", "DB")
				if err := d.Connect(mongoURL, dbName); err == nil {
					return
				}
			case <-d.stopReconnect:
				return
			}
		}
	}()
}

// Connected reports whether the last connection attempt succeeded.
func (d *MongoBackend) Connected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.isConnected
}

// Load reads a collection in natural order.
func (d *MongoBackend) Load(ctx context.Context, collection string) ([]Document, error) {
	d.mu.RLock()
	db := d.db
	connected := d.isConnected
	d.mu.RUnlock()

	if !connected || db == nil {
		d.queueMu.Lock()
		defer d.queueMu.Unlock()
		if docs, ok := d.pending[collection]; ok {
			return docs, nil
		}
		return nil, fmt.Errorf("not connected to database")
	}

	cursor, err := db.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var docs []Document
	for cursor.Next(ctx) {
		var raw bson.D
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		key, body := splitID(raw)
		data, err := bson.MarshalExtJSON(body, false, false)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{Key: key, Body: data})
	}
	return docs, cursor.Err()
}

func splitID(raw bson.D) (string, bson.D) {
	body := make(bson.D, 0, len(raw))
	var key string
	for _, e := range raw {
		if e.Key == "_id" {
			key = fmt.Sprint(e.Value)
			continue
		}
		body = append(body, e)
	}
	return key, body
}

// Save replaces the collection content. When offline, or when the write
// fails, the snapshot is queued and the call succeeds.
func (d *MongoBackend) Save(ctx context.Context, collection string, docs []Document) error {
	d.mu.RLock()
	db := d.db
	connected := d.isConnected
	d.mu.RUnlock()

	if !connected || db == nil {
		d.enqueue(collection, docs)
		return nil
	}

	if err := replaceCollection(ctx, db.Collection(collection), docs); err != nil {
		logger.Error(fmt.Sprintf("Error al guardar '%s': %v. Se encola para sincronizar.", collection, err), "DB")
		d.enqueue(collection, docs)
	}
	return nil
}

func replaceCollection(ctx context.Context, col *mongo.Collection, docs []Document) error {
	keys := make([]string, 0, len(docs))
	for _, doc := range docs {
		var body bson.D
		if err := bson.UnmarshalExtJSON(doc.Body, false, &body); err != nil {
			return fmt.Errorf("documento %s inválido: %w", doc.Key, err)
		}
		record := append(bson.D{{Key: "_id", Value: doc.Key}}, body...)
		opts := options.Replace().SetUpsert(true)
		if _, err := col.ReplaceOne(ctx, bson.M{"_id": doc.Key}, record, opts); err != nil {
			return err
		}
		keys = append(keys, doc.Key)
	}
	_, err := col.DeleteMany(ctx, bson.M{"_id": bson.M{"$nin": keys}})
	return err
}

// enqueue keeps only the latest snapshot per collection.
func (d *MongoBackend) enqueue(collection string, docs []Document) {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()
	d.pending[collection] = docs
}

// PendingCollections returns how many collections wait to be synced.
func (d *MongoBackend) PendingCollections() int {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()
	return len(d.pending)
}

// syncOfflineWrites pushes queued snapshots to the database
func (d *MongoBackend) syncOfflineWrites() {
	d.queueMu.Lock()
	if len(d.pending) == 0 {
		d.queueMu.Unlock()
		return
	}

	logger.System(fmt.Sprintf("Sincronizando %d colecciones pendientes con la DB...", len(d.pending)), "DB-Sync")

	snapshots := d.pending
	d.pending = make(map[string][]Document)
	d.queueMu.Unlock()

	d.mu.RLock()
	db := d.db
	d.mu.RUnlock()

	failed := 0
	for name, docs := range snapshots {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := replaceCollection(ctx, db.Collection(name), docs)
		cancel()

		if err != nil {
			logger.Error(fmt.Sprintf("Error al sincronizar '%s'. Se volverá a encolar.", name), "DB-Sync")
			d.queueMu.Lock()
			// A newer snapshot queued meanwhile wins.
			if _, exists := d.pending[name]; !exists {
				d.pending[name] = docs
			}
			d.queueMu.Unlock()
			failed++
		}
	}

	if failed > 0 {
		logger.Warn(fmt.Sprintf("%d colecciones no pudieron sincronizarse y se reintentarán.", failed), "DB-Sync")
	} else {
		logger.Success("Sincronización completada exitosamente.", "DB-Sync")
	}
}

// Ping measures the database response time
func (d *MongoBackend) Ping() (time.Duration, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.isConnected || d.client == nil {
		return 0, fmt.Errorf("not connected to database")
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := d.client.Ping(ctx, readpref.Primary())
	return time.Since(start), err
}

// Status returns the database connection status
func (d *MongoBackend) Status() (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.client == nil {
		return "🔴 | Desconectado", false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.client.Ping(ctx, readpref.Primary()); err != nil {
		return "🔴 | Desconectado", false
	}
	return "🟢 | En linea", true
}

// Close stops the reconnect loop and disconnects.
func (d *MongoBackend) Close(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.reconnectTicker != nil {
		d.reconnectTicker.Stop()
		d.reconnectTicker = nil
	}
	select {
	case <-d.stopReconnect:
	default:
		close(d.stopReconnect)
	}

	if d.client == nil {
		return nil
	}
	if err := d.client.Disconnect(ctx); err != nil {
		return err
	}
	d.isConnected = false
	logger.Warn("La base de datos ha sido desconectada", "DB")
	return nil
}
